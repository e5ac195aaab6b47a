package detection

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/domain/chat"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/providers/http/client"
)

// Predictor calls the object detection service
type Predictor struct {
	client *client.Client
	host   string
}

// NewPredictor targets http://<host>/predict. host is used verbatim.
func NewPredictor(c *client.Client, host string) *Predictor {
	return &Predictor{client: c, host: host}
}

// URL returns the predict endpoint without query.
func (p *Predictor) URL() string {
	return "http://" + p.host + "/predict"
}

// Host returns the configured service host.
func (p *Predictor) Host() string {
	return p.host
}

// Predict asks the service to analyze the stored object key. The request
// has no body; the key travels in the img query parameter.
func (p *Predictor) Predict(ctx context.Context, key string) (*chat.DetectionResult, error) {
	resp, err := p.client.ExecuteWithBreaker(func() (*resty.Response, error) {
		req, err := p.client.Request(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := req.SetQueryParam("img", key).Post(p.URL())
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return resp, &StatusError{Service: servicePredict, StatusCode: resp.StatusCode()}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, ErrEmptyPrediction
	}

	var result chat.DetectionResult
	if err := sonic.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("invalid prediction response: %w", err)
	}
	result.Labels = lo.Map(result.Labels, func(label string, _ int) string {
		return validUTF8(label)
	})
	result.PredictionUID = validUTF8(result.PredictionUID)
	return &result, nil
}

// validUTF8 replaces invalid byte sequences the service may send.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
