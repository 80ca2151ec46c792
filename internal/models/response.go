package models

// StandardResponse is what a handler answers with.
// See https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type StandardResponse struct {
	OutputSpeech     *OutputSpeech
	Card             *Card
	Reprompt         *OutputSpeech
	ShouldEndSession bool
}

// NewStandardResponse returns an empty response that ends the session.
func NewStandardResponse() StandardResponse {
	return StandardResponse{ShouldEndSession: true}
}

type SpeechType int

const (
	SpeechPlainText SpeechType = iota
	SpeechSSML
)

// OutputSpeech is either plain text or SSML markup, depending on Type.
type OutputSpeech struct {
	Type SpeechType
	Text string
	SSML string
}

func PlainText(text string) *OutputSpeech {
	return &OutputSpeech{Type: SpeechPlainText, Text: text}
}

func SSML(ssml string) *OutputSpeech {
	return &OutputSpeech{Type: SpeechSSML, SSML: ssml}
}

type CardType int

const (
	CardSimple CardType = iota
	CardStandard
)

// Card is shown in the companion app or on devices with a screen.
// Simple cards use Content, standard cards use Text and Image.
type Card struct {
	Type    CardType
	Title   string
	Content string
	Text    string
	Image   *Image
}

func SimpleCard(title, content string) *Card {
	return &Card{Type: CardSimple, Title: title, Content: content}
}

func StandardCard(title, text string, image *Image) *Card {
	return &Card{Type: CardStandard, Title: title, Text: text, Image: image}
}

type Image struct {
	SmallImageURL string
	LargeImageURL string
}
