package playclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/logger"
)

// Client talks to the remote play service
type Client struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

// New creates a play service client. A zero timeout uses DefaultTimeout.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
		APIKey: apiKey,
	}
}

// Play places one wager. Exactly one request is made; the caller owns any
// fallback policy. Errors wrap domain.ErrPlayServiceUnreachable,
// domain.ErrPlayServiceStatus or domain.ErrMalformedPlayPayload, or carry the
// context error when the deadline passed.
func (c *Client) Play(ctx context.Context, sessionID string, stake decimal.Decimal) (domain.Outcome, error) {
	log := logger.FromContext(ctx)

	reqBody, err := json.Marshal(domain.PlayRequest{Stake: json.Number(stake.String())})
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%s: %w", ErrMsgMarshalFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+PlayPath, bytes.NewReader(reqBody))
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	req.Header.Set(HeaderRequestID, sessionID)
	if c.APIKey != "" {
		req.Header.Set(HeaderAPIKey, c.APIKey)
	}

	log.Debug(LogMsgPlayRequest, "stake", stake.String())

	resp, err := c.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Outcome{}, fmt.Errorf("%w: %w", domain.ErrPlayServiceUnreachable, ctxErr)
		}
		return domain.Outcome{}, fmt.Errorf("%w: %w", domain.ErrPlayServiceUnreachable, err)
	}
	defer resp.Body.Close()

	log.Debug(LogMsgPlayResponse, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseBytes))
		return domain.Outcome{}, fmt.Errorf(ErrMsgStatusFormat, domain.ErrPlayServiceStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%w: %s: %w", domain.ErrPlayServiceUnreachable, ErrMsgReadFailed, err)
	}

	return ParseOutcome(body, sessionID, stake)
}

// ParseOutcome reads a play response leniently. Numbers may arrive as JSON
// numbers or numeric strings; unknown fields are ignored.
func ParseOutcome(body []byte, sessionID string, stake decimal.Decimal) (domain.Outcome, error) {
	if !gjson.ValidBytes(body) {
		return domain.Outcome{}, fmt.Errorf(ErrMsgFieldWrapFormat, domain.ErrMalformedPlayPayload, ErrMsgInvalidJSON)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.Outcome{}, fmt.Errorf(ErrMsgFieldWrapFormat, domain.ErrMalformedPlayPayload, ErrMsgInvalidJSON)
	}

	payout, ok := decimalField(root.Get(FieldPayout))
	if !ok {
		return domain.Outcome{}, malformed(ErrMsgMissingField, FieldPayout)
	}
	if payout.IsNegative() {
		return domain.Outcome{}, malformed(ErrMsgNegativeField, FieldPayout)
	}

	var balance decimal.Decimal
	found := false
	for _, name := range BalanceFields {
		if balance, found = decimalField(root.Get(name)); found {
			break
		}
	}
	if !found {
		return domain.Outcome{}, malformed(ErrMsgMissingField, BalanceFields[0])
	}

	multiplier := decimal.Zero
	if m := root.Get(FieldMultiplier); m.Exists() && m.Type != gjson.Null {
		if multiplier, ok = decimalField(m); !ok {
			return domain.Outcome{}, malformed(ErrMsgMissingField, FieldMultiplier)
		}
		if multiplier.IsNegative() {
			return domain.Outcome{}, malformed(ErrMsgNegativeField, FieldMultiplier)
		}
	} else if stake.IsPositive() {
		multiplier = payout.DivRound(stake, MultiplierPlaces)
	}

	var reels []string
	if r := root.Get(FieldReels); r.IsArray() {
		for _, v := range r.Array() {
			if v.Type == gjson.String {
				reels = append(reels, v.Str)
			}
		}
	}

	return domain.Outcome{
		SessionID:        sessionID,
		Stake:            stake,
		Payout:           payout,
		Multiplier:       multiplier,
		ResultingBalance: balance,
		Won:              payout.IsPositive(),
		Reels:            reels,
		Source:           domain.OutcomeSourceRemote,
		SettledAt:        time.Now(),
	}, nil
}

func decimalField(r gjson.Result) (decimal.Decimal, bool) {
	var raw string
	switch r.Type {
	case gjson.Number:
		raw = r.Raw
	case gjson.String:
		raw = strings.TrimSpace(r.Str)
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func malformed(format, field string) error {
	return fmt.Errorf(ErrMsgFieldWrapFormat, domain.ErrMalformedPlayPayload, fmt.Sprintf(format, field))
}
