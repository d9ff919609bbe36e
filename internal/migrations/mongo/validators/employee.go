package validators

import "go.mongodb.org/mongo-driver/bson"

var EmployeeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"department",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"department": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},
		},
	},
}
