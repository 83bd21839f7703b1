package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultTemperature = 0.7

	serviceName = "gemini"
)

var errEmptyTips = errors.New("response has no tips")

// generator is the slice of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type Gemini struct {
	models      generator
	model       string
	temperature float32
	timeout     time.Duration
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGemini(client.Models, cfg), nil
}

func newGemini(models generator, cfg GeminiConfig) *Gemini {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	return &Gemini{
		models:      models,
		model:       model,
		temperature: float32(temperature),
		timeout:     cfg.Timeout,
	}
}

func (g *Gemini) GetAdvice(ctx context.Context, txs []entity.Transaction, query string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(query), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advicePrompt(txs), genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", pkgerror.NewExternal(serviceName, err)
	}

	return resp.Text(), nil
}

func (g *Gemini) GetSpendingTips(ctx context.Context, txs []entity.Transaction) ([]string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(tipsQuery), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(tipsPrompt(txs), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"tips": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"tips"},
		},
	})
	if err != nil {
		return nil, pkgerror.NewExternal(serviceName, err)
	}

	return decodeTips(resp.Text())
}

func decodeTips(text string) ([]string, error) {
	var out struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return nil, pkgerror.NewExternal(serviceName, fmt.Errorf("malformed tips: %w", err))
	}
	if len(out.Tips) == 0 {
		return nil, pkgerror.NewExternal(serviceName, errEmptyTips)
	}
	return out.Tips, nil
}

func (g *Gemini) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}
