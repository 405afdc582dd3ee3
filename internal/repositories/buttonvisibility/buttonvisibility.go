package buttonvisibility

import "context"

// Known button labels. Rows are seeded by the init migration; a label
// missing from the table is treated as visible.
const (
	LabelRedditPost   = "Reddit Post"
	LabelWatchVideo   = "Watch Video"
	LabelYouTubeLink  = "YouTube Link"
	LabelImageGallery = "Image Gallery"
	LabelWebLink      = "Web Link"
)

//go:generate go run go.uber.org/mock/mockgen -source=buttonvisibility.go -destination=mocks/mock.go
type Repository interface {
	GetAll(ctx context.Context) (map[string]bool, error)
	Set(ctx context.Context, label string, visible bool) error
}
