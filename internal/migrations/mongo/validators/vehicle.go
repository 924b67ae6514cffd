package validators

import "go.mongodb.org/mongo-driver/bson"

var VehicleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"plate_number",
			"make",
			"model",
			"year",
			"capacity",
			"vehicle_class",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"plate_number": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 15,
			},

			"make": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"model": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 50,
			},

			"year": bson.M{
				"bsonType": "int",
				"minimum":  1980,
				"maximum":  2100,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  60,
			},

			"vehicle_class": bson.M{
				"bsonType": "string",
				"enum": []string{
					"sedan",
					"suv",
					"van",
					"minibus",
					"bus",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"maintenance",
					"retired",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
