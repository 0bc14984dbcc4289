// Package binance is a Binance spot REST client covering exactly what the
// trading loop needs: recent klines, free balances, symbol filters and
// market order submission. Requests that touch the account are signed
// with HMAC-SHA256 over the query string.
package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"crypto-trading-bot/internal/logger"
	"crypto-trading-bot/internal/types"
)

type Params struct {
	APIKey    string
	SecretKey string
	BaseURL   string
}

type Client struct {
	apiKey    string
	secretKey string
	baseURL   string
	http      *http.Client

	mu          sync.Mutex
	constraints map[string]types.SymbolConstraints
}

func New(p Params) *Client {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.binance.com"
	}
	return &Client{
		apiKey:    p.APIKey,
		secretKey: p.SecretKey,
		baseURL:   p.BaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("binance: %s (code %d)", e.Msg, e.Code)
}

func (c *Client) sign(query string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, signed bool) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if signed {
		params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		params.Set("recvWindow", "10000")
		params.Set("signature", c.sign(params.Encode()))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			return nil, &apiErr
		}
		return nil, fmt.Errorf("binance: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v3/ping", nil, false)
	return err
}

// Candles returns up to limit klines for the symbol, oldest first, close
// price only. Binance interval strings (5m, 15m, 1h) pass through as-is.
func (c *Client) Candles(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))
	body, err := c.do(ctx, http.MethodGet, "/api/v3/klines", params, false)
	if err != nil {
		return nil, err
	}
	var raw [][]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing klines: %w", err)
	}
	candles := make([]types.Candle, 0, len(raw))
	for _, k := range raw {
		if len(k) < 5 {
			continue
		}
		ts, ok := k[0].(float64)
		if !ok {
			continue
		}
		closeStr, ok := k[4].(string)
		if !ok {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		candles = append(candles, types.Candle{Ts: int64(ts) / 1000, Close: closePrice})
	}
	return candles, nil
}

func (c *Client) FreeBalance(ctx context.Context, asset string) (float64, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v3/account", nil, true)
	if err != nil {
		return 0, err
	}
	var account struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &account); err != nil {
		return 0, fmt.Errorf("parsing account: %w", err)
	}
	for _, b := range account.Balances {
		if b.Asset == asset {
			free, err := strconv.ParseFloat(b.Free, 64)
			if err != nil {
				return 0, fmt.Errorf("parsing free balance for %s: %w", asset, err)
			}
			return free, nil
		}
	}
	return 0, nil
}

// SymbolConstraints returns the LOT_SIZE step and minimum notional for a
// symbol. The full exchangeInfo payload is fetched once and cached; the
// filters only change on exchange maintenance windows.
func (c *Client) SymbolConstraints(ctx context.Context, symbol string) (types.SymbolConstraints, error) {
	c.mu.Lock()
	cached, ok := c.constraints[symbol]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}
	if err := c.loadExchangeInfo(ctx); err != nil {
		return types.SymbolConstraints{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	sc, ok := c.constraints[symbol]
	if !ok {
		return types.SymbolConstraints{}, fmt.Errorf("binance: symbol not found: %s", symbol)
	}
	return sc, nil
}

func (c *Client) loadExchangeInfo(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodGet, "/api/v3/exchangeInfo", nil, false)
	if err != nil {
		return err
	}
	var info struct {
		Symbols []struct {
			Symbol     string `json:"symbol"`
			BaseAsset  string `json:"baseAsset"`
			QuoteAsset string `json:"quoteAsset"`
			Filters    []struct {
				FilterType  string `json:"filterType"`
				StepSize    string `json:"stepSize,omitempty"`
				MinNotional string `json:"minNotional,omitempty"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("parsing exchangeInfo: %w", err)
	}
	constraints := make(map[string]types.SymbolConstraints, len(info.Symbols))
	for _, s := range info.Symbols {
		sc := types.SymbolConstraints{
			Symbol:     s.Symbol,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
		}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				sc.StepSize = f.StepSize
			case "MIN_NOTIONAL", "NOTIONAL":
				// Spot renamed the filter to NOTIONAL; accept both.
				sc.MinNotional, _ = strconv.ParseFloat(f.MinNotional, 64)
			}
		}
		constraints[s.Symbol] = sc
	}
	c.mu.Lock()
	c.constraints = constraints
	c.mu.Unlock()
	return nil
}

// MarketOrder submits a MARKET order. There is no retry and no
// cancellation path; a failed call means the trade did not happen from
// this system's point of view.
func (c *Client) MarketOrder(ctx context.Context, req types.OrderReq) (types.OrderReceipt, error) {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(req.Qty, 'f', -1, 64))
	params.Set("newClientOrderId", uuid.NewString())
	body, err := c.do(ctx, http.MethodPost, "/api/v3/order", params, true)
	if err != nil {
		return types.OrderReceipt{}, err
	}
	var resp struct {
		OrderID int64  `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.OrderReceipt{}, fmt.Errorf("parsing order response: %w", err)
	}
	logger.Debug(ctx, "Order accepted", "symbol", req.Symbol, "side", req.Side, "order_id", resp.OrderID, "status", resp.Status)
	return types.OrderReceipt{OrderID: strconv.FormatInt(resp.OrderID, 10), Status: resp.Status}, nil
}
