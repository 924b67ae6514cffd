package validators

import "go.mongodb.org/mongo-driver/bson"

var TripValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"driver_id",
			"vehicle_id",
			"date",
			"start_time",
			"service_type",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"driver_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"vehicle_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"escort_vehicle_ids": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{2}:\\d{2}$",
			},

			"return_time": bson.M{
				"bsonType": "string",
			},

			"service_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"airport_pickup",
					"airport_dropoff",
					"one_way_transfer",
					"round_trip",
					"full_day",
					"half_day",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"scheduled",
					"in_progress",
					"completed",
					"cancelled",
				},
			},

			"passenger_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"passenger_phone": bson.M{
				"bsonType": "string",
			},

			"pickup_location": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"dropoff_location": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
