package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProcessedReadingEntity is one per-minute reading in the
// read_processed_data collection. The bson keys are the collection's
// historical schema; the json keys are what the API serves.
type ProcessedReadingEntity struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
	CtR        float64            `json:"ct_r_a" bson:"ct_r (a)"`
	CtY        float64            `json:"ct_y_a" bson:"ct_y (a)"`
	CtB        float64            `json:"ct_b_a" bson:"ct_b (a)"`
	RPower     float64            `json:"r_power_kw" bson:"r_power(kw)"`
	YPower     float64            `json:"y_power_kw" bson:"y_power(kw)"`
	BPower     float64            `json:"b_power_kw" bson:"b_power(kw)"`
	TotalPower float64            `json:"total_power_kw" bson:"total_power(kw)"`
	DeviceName string             `json:"device_name" bson:"device_name"`
}

func (ProcessedReadingEntity) CollectionName() string {
	return "read_processed_data"
}
