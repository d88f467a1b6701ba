package tools

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	uuid "github.com/satori/go.uuid"
)

func NewUuid() string {
	id := uuid.NewV4()
	return id.String()
}

// Normal sensor CSV, one row per minute
func GenerateSensorCsvNormal(fileName string, start time.Time, days, rowsPerDay int) error {
	return generateSensorCsv(fileName, start, days, rowsPerDay, false)
}

// Malformed sensor CSV with some unparseable cells
func GenerateSensorCsvMalformed(fileName string, start time.Time, days, rowsPerDay int) error {
	return generateSensorCsv(fileName, start, days, rowsPerDay, true)
}

// shared generator function, mimics the portal's raw export shape
func generateSensorCsv(fileName string, start time.Time, days, rowsPerDay int, malform bool) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	w.Write([]string{"Timestamp", "CT_R (A)", "CT_Y (A)", "CT_B (A)", "Status"})

	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		for m := 0; m < rowsPerDay; m++ {
			ts := day.Add(time.Duration(m) * time.Minute)
			row := []string{
				ts.Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%.2f", rand.Float64()*60),
				fmt.Sprintf("%.2f", rand.Float64()*60),
				fmt.Sprintf("%.2f", rand.Float64()*60),
				"OK",
			}
			if malform && rand.Float32() < 0.05 {
				row[1+rand.Intn(3)] = "ERROR" // intentionally malformed
			}
			w.Write(row)
		}
	}
	return nil
}
