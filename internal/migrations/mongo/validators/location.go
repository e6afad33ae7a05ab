package validators

import "go.mongodb.org/mongo-driver/bson"

var LocationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"width",
			"height",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"width": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"height": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  1000,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
