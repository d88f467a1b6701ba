package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailySummaryEntity is one calendar day of summed currents and derived
// energy in the daily_power_consumption collection. Date carries no
// time-of-day beyond midnight UTC.
type DailySummaryEntity struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Date       time.Time          `json:"date" bson:"date"`
	SumCtR     float64            `json:"sum_ct_r_a" bson:"sum_CT_R_A"`
	SumCtY     float64            `json:"sum_ct_y_a" bson:"sum_CT_Y_A"`
	SumCtB     float64            `json:"sum_ct_b_a" bson:"sum_CT_B_A"`
	TotalKWh   float64            `json:"total_kwh" bson:"total_kWh"`
	DeviceName string             `json:"device_name" bson:"device_name"`
}

func (DailySummaryEntity) CollectionName() string {
	return "daily_power_consumption"
}
