package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"model",
			"plate_number",
			"driver",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"model": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"plate_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 20,
			},

			"driver": bson.M{
				"bsonType": "object",
				"required": []string{"name", "license_number"},
				"properties": bson.M{
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 100,
					},
					"license_number": bson.M{
						"bsonType":  "string",
						"minLength": 1,
						"maxLength": 30,
					},
					"contact": bson.M{
						"bsonType": "string",
					},
				},
			},
		},
	},
}
