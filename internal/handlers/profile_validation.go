package handlers

import "strings"

var validBloodTypes = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {},
	"AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		return "first_name cannot be empty"
	}
	if req.HeightCM != nil && (*req.HeightCM <= 0 || *req.HeightCM > 300) {
		return "height_cm must be between 0 and 300"
	}
	if req.WeightKG != nil && (*req.WeightKG <= 0 || *req.WeightKG > 500) {
		return "weight_kg must be between 0 and 500"
	}
	if req.BloodType != nil && *req.BloodType != "" {
		if _, ok := validBloodTypes[*req.BloodType]; !ok {
			return "blood_type must be one of A+, A-, B+, B-, AB+, AB-, O+, O-"
		}
	}
	if req.Conditions != nil {
		for _, cond := range *req.Conditions {
			if strings.TrimSpace(cond) == "" {
				return "conditions cannot contain empty entries"
			}
		}
	}
	return ""
}
