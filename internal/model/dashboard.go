package model

import (
	"time"

	"github.com/google/uuid"
)

// RecentItemsLimit is the number of items shown in the dashboard's recent list.
const RecentItemsLimit = 5

// RecentItem is one entry of the dashboard's recent items list.
type RecentItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	IsIn          bool      `json:"is_in"`
	CreatedAt     time.Time `json:"created_at"`
	CategoryName  *string   `json:"category_name"`
	ContainerName *string   `json:"container_name"`
	Thumbnail     *string   `json:"thumbnail"`
}

// DashboardSnapshot is the summary shown on a tenant's dashboard. It is
// computed on every request and never stored.
type DashboardSnapshot struct {
	TotalItems      int64        `json:"total_items"`
	TotalContainers int64        `json:"total_containers"`
	TotalCategories int64        `json:"total_categories"`
	ItemsOut        int64        `json:"items_out"`
	RecentItems     []RecentItem `json:"recent_items"`
}
