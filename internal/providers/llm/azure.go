package llm

import (
	"fmt"
	"net/url"
	"strings"
)

// AzureOpenAI talks to a chat deployment. The deployment selects the model,
// so the payload carries none.
type AzureOpenAI struct {
	*OpenAICompatible
}

func NewAzureOpenAI(endpoint, apiKey, deployment, apiVersion string) *AzureOpenAI {
	path := fmt.Sprintf("/openai/deployments/%s/chat/completions?api-version=%s",
		url.PathEscape(deployment), url.QueryEscape(apiVersion))

	return &AzureOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    strings.TrimRight(endpoint, "/"),
			APIKey:     apiKey,
			ChatPath:   path,
			AuthHeader: "api-key",
		}),
	}
}
