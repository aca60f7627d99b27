package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stayledger/backend/internal/models"
)

// RPCClient talks JSON-RPC 2.0 to the ledger gateway node. Method names mirror
// the contract surface; amounts travel as decimal strings because they exceed
// 53-bit JSON number precision.
type RPCClient struct {
	endpoint     string
	httpClient   *http.Client
	pollInterval time.Duration
	nextID       uint64
}

type RPCOption func(*RPCClient)

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) RPCOption {
	return func(c *RPCClient) { c.httpClient = h }
}

// WithPollInterval sets how often WaitMined asks for a receipt.
func WithPollInterval(d time.Duration) RPCOption {
	return func(c *RPCClient) { c.pollInterval = d }
}

func NewRPCClient(endpoint string, opts ...RPCOption) *RPCClient {
	c := &RPCClient{
		endpoint:     endpoint,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RPCError is a ledger-level error response: the gateway was reachable and
// processed the request, but the ledger refused it.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("ledger rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status %d", ErrUnreachable, method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", ErrUnreachable, method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%w: %s: decode result: %v", ErrUnreachable, method, err)
		}
	}
	return nil
}

// Wire shapes. Amounts are decimal strings.

type wireRoom struct {
	ID            int64  `json:"id"`
	Category      int64  `json:"category"`
	PricePerNight string `json:"pricePerNight"`
	IsAvailable   bool   `json:"isAvailable"`
}

func (w wireRoom) toModel() (models.Room, error) {
	category, err := models.ParseCategory(w.Category)
	if err != nil {
		return models.Room{}, fmt.Errorf("room %d: %w", w.ID, err)
	}
	price, err := parseWireAmount(w.PricePerNight)
	if err != nil {
		return models.Room{}, fmt.Errorf("room %d price: %w", w.ID, err)
	}
	return models.Room{
		ID:            w.ID,
		Category:      category,
		PricePerNight: price,
		IsAvailable:   w.IsAvailable,
	}, nil
}

type wireRoomDetail struct {
	wireRoom
	Reviews []models.Review `json:"reviews"`
}

func parseWireAmount(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid ledger amount %q", s)
	}
	return amount, nil
}

func (c *RPCClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	var raw []wireRoom
	if err := c.call(ctx, "hotel_getAllRooms", []any{}, &raw); err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(raw))
	for _, w := range raw {
		room, err := w.toModel()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (c *RPCClient) RoomDetail(ctx context.Context, roomRef int64) (*models.RoomDetail, error) {
	var raw wireRoomDetail
	if err := c.call(ctx, "hotel_getRoomDetails", []any{roomRef}, &raw); err != nil {
		return nil, err
	}
	room, err := raw.toModel()
	if err != nil {
		return nil, err
	}
	reviews := raw.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &models.RoomDetail{Room: room, Reviews: reviews}, nil
}

func (c *RPCClient) BookingsByGuest(ctx context.Context, guest string) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.call(ctx, "hotel_getBookingsByGuest", []any{guest}, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

func (c *RPCClient) Balance(ctx context.Context, account string) (*big.Int, error) {
	var raw string
	if err := c.call(ctx, "token_balanceOf", []any{account}, &raw); err != nil {
		return nil, err
	}
	return parseWireAmount(raw)
}

func (c *RPCClient) Allowance(ctx context.Context, owner string) (*big.Int, error) {
	var raw string
	if err := c.call(ctx, "token_allowance", []any{owner}, &raw); err != nil {
		return nil, err
	}
	return parseWireAmount(raw)
}

func (c *RPCClient) EstimateBooking(ctx context.Context, category models.RoomCategory, checkIn, checkOut int64) (*big.Int, error) {
	var raw string
	if err := c.call(ctx, "hotel_estimateBooking", []any{int64(category), checkIn, checkOut}, &raw); err != nil {
		return nil, err
	}
	return parseWireAmount(raw)
}

func (c *RPCClient) Approve(ctx context.Context, owner string, amount *big.Int) (PendingTx, error) {
	return c.submit(ctx, "token_approve", []any{owner, amount.String()})
}

func (c *RPCClient) SubmitBooking(ctx context.Context, guest string, category models.RoomCategory, checkIn, checkOut int64, budget *big.Int) (PendingTx, error) {
	return c.submit(ctx, "hotel_bookRoomByCategory", []any{guest, int64(category), checkIn, checkOut, budget.String()})
}

func (c *RPCClient) SetRoomAvailability(ctx context.Context, owner string, roomID int64, available bool) (PendingTx, error) {
	return c.submit(ctx, "hotel_setRoomAvailability", []any{owner, roomID, available})
}

func (c *RPCClient) AddReview(ctx context.Context, guest string, roomID int64, rating int, comment string) (PendingTx, error) {
	return c.submit(ctx, "hotel_addReview", []any{guest, roomID, rating, comment})
}

func (c *RPCClient) AddRoom(ctx context.Context, owner string, category models.RoomCategory, pricePerNight *big.Int) (PendingTx, error) {
	return c.submit(ctx, "hotel_addRoom", []any{owner, int64(category), pricePerNight.String()})
}

func (c *RPCClient) submit(ctx context.Context, method string, params []any) (PendingTx, error) {
	var raw struct {
		Hash string `json:"hash"`
	}
	if err := c.call(ctx, method, params, &raw); err != nil {
		return PendingTx{}, err
	}
	if raw.Hash == "" {
		return PendingTx{}, fmt.Errorf("%w: %s: gateway returned no transaction hash", ErrUnreachable, method)
	}
	return PendingTx{Hash: TxHash(raw.Hash)}, nil
}

// WaitMined polls tx_getReceipt until the ledger reports a verdict. A nil
// receipt result means the transaction is still pending.
func (c *RPCClient) WaitMined(ctx context.Context, tx PendingTx) (*Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *Receipt
		if err := c.call(ctx, "tx_getReceipt", []any{string(tx.Hash)}, &receipt); err != nil {
			return nil, err
		}
		if receipt != nil && receipt.Status != "" {
			receipt.Hash = tx.Hash
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for tx %s: %w", tx.Hash, ctx.Err())
		case <-ticker.C:
		}
	}
}
