package gcppubsub

import (
	"errors"
	"os"
)

var ErrMissingProjectID = errors.New("GCP project id is not configured (mq.gcp_project_id or GCP_PROJECT_ID)")

// GetGCPProjectID returns configured when set, else GCP_PROJECT_ID.
func GetGCPProjectID(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if projectID := os.Getenv("GCP_PROJECT_ID"); projectID != "" {
		return projectID, nil
	}
	return "", ErrMissingProjectID
}
