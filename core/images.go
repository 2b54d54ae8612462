package core

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"regexp"
	"strings"

	"github.com/bikepoint/sprocket/schema"
)

// uploadMarker is the Cloudinary path segment transforms are inserted after.
const uploadMarker = "/upload/"

// fallbackBlur is the fixed placeholder served for non-CDN sources, which
// cannot be blurred by URL transform.
const fallbackBlur = "https://res.cloudinary.com/bikepoint/image/upload/v1/placeholders/blur.jpg"

// avatarColors is the palette for generated initials avatars. The color for
// a given pair of initials is stable across runs.
var avatarColors = []string{
	"0d6efd", "6610f2", "6f42c1", "d63384",
	"dc3545", "fd7e14", "198754", "20c997",
}

// versionSegment matches the Cloudinary version path segment, both the
// numeric timestamp shape (v1698123456/) and the literal v1/ shape.
var versionSegment = regexp.MustCompile(`^v\d+/`)

// ImageResolver resolves the best image URL for a record and applies CDN
// transforms. Records carry any subset of image fields; the resolver always
// returns a non-empty, syntactically valid URL, falling back to a generated
// initials avatar when nothing usable is present.
type ImageResolver struct {
	mediaBase string
}

// NewImageResolver creates a resolver. Relative media paths are joined onto
// mediaBase.
func NewImageResolver(mediaBase string) ImageResolver {
	return ImageResolver{mediaBase: strings.TrimRight(mediaBase, "/")}
}

// Vehicle resolves the image URL for a marketplace listing. Priority:
// explicit URL, structured main, structured thumbnail, first gallery entry,
// legacy photo field, generated avatar from brand and model initials.
func (r ImageResolver) Vehicle(v schema.Vehicle) string {
	candidates := []string{v.ImageURL}
	if v.Images != nil {
		candidates = append(candidates, v.Images.Main, v.Images.Thumbnail)
		if len(v.Images.Gallery) > 0 {
			candidates = append(candidates, v.Images.Gallery[0])
		}
	}
	candidates = append(candidates, v.Photo)

	for _, c := range candidates {
		if u := r.absolute(c); u != "" {
			return u
		}
	}
	return AvatarURL(schema.Initials(v.Brand, v.Model))
}

// Service resolves the image URL for a repair service.
func (r ImageResolver) Service(svc schema.Service) string {
	if u := r.absolute(svc.ImageURL); u != "" {
		return u
	}
	return AvatarURL(schema.Initials(svc.Name, svc.Category))
}

// Display applies the display transform (fill crop at the given size, auto
// quality and format) to a CDN URL. Non-CDN URLs and URLs whose shape is not
// recognized pass through unchanged.
func (r ImageResolver) Display(rawURL string, width, height int) string {
	transform := fmt.Sprintf("c_fill,w_%d,h_%d,q_auto,f_auto", width, height)
	return insertTransform(rawURL, transform)
}

// Placeholder applies the blur-up transform (tiny width, heavy blur, low
// quality) to a CDN URL. Non-CDN sources get a fixed placeholder asset
// since they cannot be transformed by URL.
func (r ImageResolver) Placeholder(rawURL string) string {
	if !strings.Contains(rawURL, uploadMarker) {
		return fallbackBlur
	}
	return insertTransform(rawURL, "w_60,e_blur:600,q_30,f_auto")
}

// absolute turns a candidate image field into a usable absolute URL, or ""
// when the field is empty. Relative media paths are joined onto the
// configured media base.
func (r ImageResolver) absolute(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		return candidate
	}
	return r.mediaBase + "/" + strings.TrimLeft(candidate, "/")
}

// AvatarURL builds a generated initials-avatar URL. The background color is
// derived from the initials so the same record always gets the same color.
func AvatarURL(initials string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(initials))
	background := avatarColors[h.Sum32()%uint32(len(avatarColors))]
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=%s&color=fff&size=256",
		url.QueryEscape(initials), background)
}

// insertTransform splices a transformation block into a Cloudinary URL,
// right after the upload segment and before the version segment. URLs
// without the upload segment, or with an unrecognized path after it, come
// back unchanged.
func insertTransform(rawURL, transform string) string {
	idx := strings.Index(rawURL, uploadMarker)
	if idx < 0 {
		return rawURL
	}
	head := rawURL[:idx+len(uploadMarker)]
	tail := rawURL[idx+len(uploadMarker):]
	if !versionSegment.MatchString(tail) {
		return rawURL
	}
	return head + transform + "/" + tail
}
