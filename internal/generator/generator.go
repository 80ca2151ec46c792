// Package generator serializes a StandardResponse into the response envelope.
//
// Booleans are encoded by encoding/json as the literals true and false, so no
// post-processing of the output is needed. shouldEndSession is written only
// when it is false; its absence means the session ends.
package generator

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"bitbucket.org/sotavant/alexa-skill/internal/models"
)

const Version = "1.0"

const (
	speechPlainText = "PlainText"
	speechSSML      = "SSML"
	cardSimple      = "Simple"
	cardStandard    = "Standard"
)

// Error is returned when the response cannot be encoded, usually because a
// session attribute holds a value JSON cannot represent.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate response: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Generator struct {
	indent string
}

func New() *Generator {
	return &Generator{}
}

// NewIndented returns a generator producing pretty printed output.
func NewIndented(indent string) *Generator {
	return &Generator{indent: indent}
}

type envelope struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Response          responseBody           `json:"response"`
}

type responseBody struct {
	OutputSpeech     *outputSpeech `json:"outputSpeech,omitempty"`
	Card             *card         `json:"card,omitempty"`
	Reprompt         *reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type outputSpeech struct {
	Type string  `json:"type"`
	Text *string `json:"text,omitempty"`
	SSML *string `json:"ssml,omitempty"`
}

type reprompt struct {
	OutputSpeech *outputSpeech `json:"outputSpeech"`
}

type card struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
	Image   *image `json:"image,omitempty"`
}

type image struct {
	SmallImageURL string `json:"smallImageUrl"`
	LargeImageURL string `json:"largeImageUrl"`
}

// Generate encodes resp and attrs. Empty attrs are left out of the envelope.
func (g *Generator) Generate(resp models.StandardResponse, attrs map[string]interface{}) ([]byte, error) {
	env := envelope{
		Version:           Version,
		SessionAttributes: attrs,
		Response:          encodeResponse(resp),
	}

	var (
		data []byte
		err  error
	)
	if g.indent != "" {
		data, err = json.MarshalIndent(env, "", g.indent)
	} else {
		data, err = json.Marshal(env)
	}
	if err != nil {
		return nil, &Error{Err: errors.Wrap(err, "encode envelope")}
	}
	return data, nil
}

func encodeResponse(resp models.StandardResponse) responseBody {
	var body responseBody

	body.OutputSpeech = encodeSpeech(resp.OutputSpeech)
	if resp.Reprompt != nil {
		body.Reprompt = &reprompt{OutputSpeech: encodeSpeech(resp.Reprompt)}
	}
	if resp.Card != nil {
		body.Card = encodeCard(resp.Card)
	}
	if !resp.ShouldEndSession {
		keepOpen := false
		body.ShouldEndSession = &keepOpen
	}

	return body
}

func encodeSpeech(s *models.OutputSpeech) *outputSpeech {
	if s == nil {
		return nil
	}

	switch s.Type {
	case models.SpeechSSML:
		ssml := s.SSML
		return &outputSpeech{Type: speechSSML, SSML: &ssml}
	default:
		text := s.Text
		return &outputSpeech{Type: speechPlainText, Text: &text}
	}
}

func encodeCard(c *models.Card) *card {
	switch c.Type {
	case models.CardStandard:
		out := &card{Type: cardStandard, Title: c.Title, Text: c.Text}
		if c.Image != nil {
			out.Image = &image{SmallImageURL: c.Image.SmallImageURL, LargeImageURL: c.Image.LargeImageURL}
		}
		return out
	default:
		return &card{Type: cardSimple, Title: c.Title, Content: c.Content}
	}
}
