package models

// ApiResponse fields are omitted when empty so each route only carries the
// keys it promises.
type ApiResponse struct {
	Message string `json:"message,omitempty"`
	Event   *Event `json:"event,omitempty"`
	Error   string `json:"error,omitempty"`
}

func EventResponse(event *Event, message string) ApiResponse {
	return ApiResponse{
		Message: message,
		Event:   event,
	}
}

// EventsResponse keeps an empty list as [] instead of dropping the key.
func EventsResponse(events []*Event, message string) map[string]any {
	if events == nil {
		events = []*Event{}
	}
	return map[string]any{
		"message": message,
		"events":  events,
	}
}

func SimilarResponse(res SimilarEvents, message string) map[string]any {
	out := EventsResponse(res.Events, message)
	out["status"] = res.Status
	return out
}

func MessageResponse(message string) ApiResponse {
	return ApiResponse{Message: message}
}

func ErrorResponse(message string, err string) ApiResponse {
	return ApiResponse{
		Message: message,
		Error:   err,
	}
}
