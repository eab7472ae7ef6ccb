package api

// GJSON paths for extracting values from generateContent responses.
const (
	PathCandidates   = "candidates"
	PathBlockReason  = "promptFeedback.blockReason"
	PathUsagePrompt  = "usageMetadata.promptTokenCount"
	PathUsageCands   = "usageMetadata.candidatesTokenCount"
	PathUsageTotal   = "usageMetadata.totalTokenCount"
	PathModelVersion = "modelVersion"

	// Candidate paths (relative to candidate object)
	PathCandText   = "content.parts.#.text"
	PathCandFinish = "finishReason"

	// Error payload paths
	PathErrorCode    = "error.code"
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"
	// A rejected key comes back as 400 INVALID_ARGUMENT with this detail
	PathErrorKeyInvalid = `error.details.#(reason=="API_KEY_INVALID")`
)
