package errors

import "fmt"

type NotFoundError struct {
	Type string
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.Name)
}

func NotFoundErr(t, name string) NotFoundError {
	return NotFoundError{
		Type: t,
		Name: name,
	}
}

type ForbiddenError struct {
	ProjectID string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("access to project %s is not allowed", e.ProjectID)
}

func ForbiddenErr(projectID string) ForbiddenError {
	return ForbiddenError{
		ProjectID: projectID,
	}
}

// ServiceError is returned when a compute or network endpoint answers with a
// non-2xx status.
type ServiceError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e ServiceError) Error() string {
	return fmt.Sprintf("%s: %s %s returned %d: %s", e.Service, e.Method, e.URL, e.StatusCode, e.Body)
}

func ServiceErr(service, method, url string, status int, body string) ServiceError {
	return ServiceError{
		Service:    service,
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       body,
	}
}

// TaskFailedError is returned for a background task that ended in failure.
type TaskFailedError struct {
	UUID   string
	Reason string
}

func (e TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.UUID, e.Reason)
}

func TaskFailedErr(uuid, reason string) TaskFailedError {
	return TaskFailedError{
		UUID:   uuid,
		Reason: reason,
	}
}
