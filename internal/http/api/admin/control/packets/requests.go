package packets

// body for PUT /location
type SetLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	City      string   `json:"city"`
	Timezone  string   `json:"timezone"`
}

// body for POST /notifications/test; an empty kind sends the adhan test
type TestNotificationRequest struct {
	Kind string `json:"kind" binding:"omitempty,oneof=adhan salawat next pre_prayer"`
}
