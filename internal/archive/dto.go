// AngelaMos | 2026
// dto.go

package archive

import (
	"time"
)

type ListParams struct {
	Page         int
	PageSize     int
	ResourceType string
	ResourceID   string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type RemovedItemResponse struct {
	ID           string    `json:"id"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Name         string    `json:"name"`
	Reason       string    `json:"reason,omitempty"`
	RemovedBy    string    `json:"removed_by"`
	RemovedAt    time.Time `json:"removed_at"`
}

// DeleteRequest is the optional body of a soft-delete call.
type DeleteRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

func ToResponse(item *RemovedItem) RemovedItemResponse {
	resp := RemovedItemResponse{
		ID:           item.ID,
		ResourceType: item.ResourceType,
		ResourceID:   item.ResourceID,
		Name:         item.Name,
		RemovedBy:    item.RemovedBy,
		RemovedAt:    item.RemovedAt,
	}
	if item.Reason != nil {
		resp.Reason = *item.Reason
	}
	return resp
}

func ToResponseList(items []RemovedItem) []RemovedItemResponse {
	responses := make([]RemovedItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToResponse(&items[i]))
	}
	return responses
}
