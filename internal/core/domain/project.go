package domain

import "time"

// ProjectStatus is the publication state of a portfolio project.
type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "EN_COURS"
	ProjectDone       ProjectStatus = "TERMINE"
	ProjectPending    ProjectStatus = "EN_ATTENTE"
)

// ProjectStatuses lists every accepted project status, in display order.
var ProjectStatuses = []ProjectStatus{ProjectInProgress, ProjectDone, ProjectPending}

// Valid reports whether s belongs to the closed status set.
func (s ProjectStatus) Valid() bool {
	for _, known := range ProjectStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Public reports whether projects in this status may be shown to anonymous visitors.
func (s ProjectStatus) Public() bool {
	return s == ProjectDone
}

// Project is a portfolio entry.
type Project struct {
	ID           string        `json:"id" bson:"_id"`
	Title        string        `json:"title" bson:"title"`
	Description  string        `json:"description" bson:"description"`
	Technologies []string      `json:"technologies" bson:"technologies"`
	Client       string        `json:"client" bson:"client"`
	Duration     string        `json:"duration" bson:"duration"`
	Status       ProjectStatus `json:"status" bson:"status"`
	Date         time.Time     `json:"date" bson:"date"`
	URL          string        `json:"url,omitempty" bson:"url,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	ImageIDs     []string      `json:"imageIds" bson:"image_ids"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}
