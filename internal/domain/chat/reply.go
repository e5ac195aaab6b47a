package chat

import (
	"fmt"
	"strings"
)

// PromptReply is sent whenever a turn carries no image.
const PromptReply = "Please provide an image for object detection."

const (
	successHeader = "🔍 **Object Detection Results**"
	errorHeader   = "❌ **Object Detection Error**"
)

// SuccessReply formats a detection result for the chat transcript.
func SuccessReply(result DetectionResult) string {
	labels := strings.Join(result.Labels, ", ")

	var sb strings.Builder
	sb.WriteString(successHeader)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "**Detection Count:** %d\n", result.DetectionCount)
	fmt.Fprintf(&sb, "**Detected Objects:** %s\n", labels)
	fmt.Fprintf(&sb, "**Prediction ID:** %s\n\n", result.PredictionUID)
	fmt.Fprintf(&sb, "I've analyzed your image and detected %d object(s). The detected objects include: %s.",
		result.DetectionCount, labels)
	return sb.String()
}

// ErrorReply formats an image pipeline failure. host names the prediction
// service the user should check.
func ErrorReply(description, host string) string {
	if description == "" {
		description = "Unknown error"
	}

	var sb strings.Builder
	sb.WriteString(errorHeader)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Sorry, I encountered an error while processing your image: %s\n\n", description)
	fmt.Fprintf(&sb, "Please make sure the object detection service is running on %s.", host)
	return sb.String()
}
