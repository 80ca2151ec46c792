package generator

import (
	"encoding/json"

	"github.com/pkg/errors"

	"bitbucket.org/sotavant/alexa-skill/internal/models"
)

// Decode reads a response envelope produced by Generate back into a
// StandardResponse and its session attributes.
func Decode(data []byte) (models.StandardResponse, map[string]interface{}, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.StandardResponse{}, nil, errors.Wrap(err, "decode envelope")
	}
	if env.Version != Version {
		return models.StandardResponse{}, nil, errors.Errorf("unsupported version %q", env.Version)
	}

	resp := models.NewStandardResponse()
	if env.Response.ShouldEndSession != nil {
		resp.ShouldEndSession = *env.Response.ShouldEndSession
	}

	var err error
	if resp.OutputSpeech, err = decodeSpeech(env.Response.OutputSpeech); err != nil {
		return models.StandardResponse{}, nil, errors.Wrap(err, "outputSpeech")
	}
	if env.Response.Reprompt != nil {
		if resp.Reprompt, err = decodeSpeech(env.Response.Reprompt.OutputSpeech); err != nil {
			return models.StandardResponse{}, nil, errors.Wrap(err, "reprompt")
		}
	}
	if resp.Card, err = decodeCard(env.Response.Card); err != nil {
		return models.StandardResponse{}, nil, errors.Wrap(err, "card")
	}

	return resp, env.SessionAttributes, nil
}

func decodeSpeech(s *outputSpeech) (*models.OutputSpeech, error) {
	if s == nil {
		return nil, nil
	}

	switch s.Type {
	case speechPlainText:
		if s.Text == nil {
			return nil, errors.New("plain text speech without text")
		}
		return models.PlainText(*s.Text), nil
	case speechSSML:
		if s.SSML == nil {
			return nil, errors.New("SSML speech without ssml")
		}
		return models.SSML(*s.SSML), nil
	}
	return nil, errors.Errorf("unknown speech type %q", s.Type)
}

func decodeCard(c *card) (*models.Card, error) {
	if c == nil {
		return nil, nil
	}

	switch c.Type {
	case cardSimple:
		return models.SimpleCard(c.Title, c.Content), nil
	case cardStandard:
		var img *models.Image
		if c.Image != nil {
			img = &models.Image{SmallImageURL: c.Image.SmallImageURL, LargeImageURL: c.Image.LargeImageURL}
		}
		return models.StandardCard(c.Title, c.Text, img), nil
	}
	return nil, errors.Errorf("unknown card type %q", c.Type)
}
