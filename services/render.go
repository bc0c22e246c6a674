package services

import (
	"regexp"

	"academy/models"
)

// MaterialView tells clients how to present a lecture material.
type MaterialView struct {
	Kind     string `json:"kind"` // youtube, video, pdf, image, audio, file
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	EmbedURL string `json:"embed_url"`
}

var youtubeIDPattern = regexp.MustCompile(`(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// YouTubeVideoID extracts the 11-character video id from any of the
// common YouTube URL forms, or returns "" for non-YouTube URLs.
func YouTubeVideoID(url string) string {
	match := youtubeIDPattern.FindStringSubmatch(url)
	if match != nil && len(match[2]) == 11 {
		return match[2]
	}
	return ""
}

// YouTubeEmbedURL converts a YouTube URL to its embed form; other URLs
// pass through unchanged.
func YouTubeEmbedURL(url string) string {
	if id := YouTubeVideoID(url); id != "" {
		return "https://www.youtube.com/embed/" + id
	}
	return url
}

// MaterialPresentation maps a material to its presentation descriptor.
// It is total: unknown types get the generic file treatment.
func MaterialPresentation(m models.LectureMaterial) MaterialView {
	switch m.Type {
	case models.MaterialVideo:
		if id := YouTubeVideoID(m.URL); id != "" {
			return MaterialView{
				Kind:     "youtube",
				Label:    "Video",
				Icon:     "play-circle",
				EmbedURL: "https://www.youtube.com/embed/" + id,
			}
		}
		return MaterialView{Kind: "video", Label: "Video", Icon: "play-circle", EmbedURL: m.URL}
	case models.MaterialPDF:
		return MaterialView{Kind: "pdf", Label: "PDF", Icon: "file-text", EmbedURL: m.URL}
	case models.MaterialImage:
		return MaterialView{Kind: "image", Label: "Image", Icon: "image", EmbedURL: m.URL}
	case models.MaterialAudio:
		return MaterialView{Kind: "audio", Label: "Audio", Icon: "headphones", EmbedURL: m.URL}
	case models.MaterialDocument:
		return MaterialView{Kind: "file", Label: "Document", Icon: "file", EmbedURL: m.URL}
	default:
		return MaterialView{Kind: "file", Label: "File", Icon: "file", EmbedURL: m.URL}
	}
}
