package domain

import (
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestUrgent    RequestStatus = "urgent"
	RequestScheduled RequestStatus = "scheduled"
	RequestOngoing   RequestStatus = "ongoing"
	RequestCompleted RequestStatus = "completed"
)

func ParseRequestStatus(s string) (RequestStatus, bool) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case RequestUrgent, RequestScheduled, RequestOngoing, RequestCompleted:
		return st, true
	}
	return "", false
}

// BloodRequest is an admin-authored call for donors.
type BloodRequest struct {
	Id          RequestId     `json:"id"`
	Title       string        `json:"title"`
	BloodType   BloodType     `json:"blood_type"`
	Location    string        `json:"location"`
	Status      RequestStatus `json:"status"`
	Deadline    time.Time     `json:"deadline"`
	Description string        `json:"description"`
	Matched     bool          `json:"matched"`
	CreatedBy   UserId        `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (r *BloodRequest) Open() bool {
	return r.Status != RequestCompleted
}
