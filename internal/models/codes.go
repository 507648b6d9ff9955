package models

import "fmt"

// Sleep stage codes as they appear in the Health Connect export.
const (
	StageLight = 1
	StageDeep  = 4
	StageAwake = 5
	StageREM   = 6
)

// SleepStages maps export stage codes to display names.
var SleepStages = map[int]string{
	StageLight: "Light",
	StageDeep:  "Deep",
	StageAwake: "Awake",
	StageREM:   "REM",
}

// SleepStageName resolves a stage code, falling back to "Unknown (n)".
func SleepStageName(code int) string {
	if name, ok := SleepStages[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

// ExerciseTypes maps Health Connect exercise-type codes to display names.
var ExerciseTypes = map[int]string{
	0:  "Unknown",
	2:  "Badminton",
	4:  "Weightlifting",
	8:  "Boxing",
	10: "Cricket",
	12: "Dancing",
	14: "Elliptical",
	16: "Fencing",
	18: "Football (American)",
	20: "Frisbee",
	21: "Cycling",
	22: "Golf",
	24: "Gymnastics",
	26: "Handball",
	28: "HIIT",
	30: "Hiking",
	32: "Hockey",
	33: "Running",
	34: "Skating (Ice)",
	36: "Martial Arts",
	38: "Pilates",
	40: "Racquetball",
	42: "Rock Climbing",
	44: "Rowing",
	46: "Sailing",
	48: "Skating",
	50: "Skiing",
	52: "Snowboarding",
	53: "Walking",
	54: "Soccer",
	56: "Squash",
	58: "Swimming",
	60: "Table Tennis",
	61: "Hiking",
	62: "Tennis",
	64: "Volleyball",
	66: "Yoga",
	68: "Stretching",
}

// ExerciseTypeName resolves an exercise code, falling back to "Unknown (n)".
func ExerciseTypeName(code int) string {
	if name, ok := ExerciseTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}
