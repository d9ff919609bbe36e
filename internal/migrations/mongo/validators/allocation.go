package validators

import "go.mongodb.org/mongo-driver/bson"

var AllocationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"employee_id",
			"vehicle_id",
			"allocation_date",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"employee_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"vehicle_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"allocation_date": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
