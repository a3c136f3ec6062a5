package dto

type GenerateGreetingRequest struct {
	Occasion  string `json:"occasion"`
	Recipient string `json:"recipient,omitempty"`
	Tone      string `json:"tone,omitempty"`
	Language  string `json:"language,omitempty"`
}

type GreetingResponse struct {
	Text string `json:"text"`
}

type SuggestDesignRequest struct {
	Occasion string   `json:"occasion"`
	Style    string   `json:"style,omitempty"`
	Colors   []string `json:"colors,omitempty"`
}

type ImproveTextRequest struct {
	Text string `json:"text"`
}

type ImprovedTextResponse struct {
	Text string `json:"text"`
}
