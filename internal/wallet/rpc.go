package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	tokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	lamportsPerSOL = 1e9
)

// RPCClient is a minimal Solana JSON-RPC client covering the two calls
// the balance service needs.
type RPCClient struct {
	endpoint string
	http     *http.Client
}

// NewRPCClient creates a Solana RPC client for the given endpoint.
func NewRPCClient(endpoint string) *RPCClient {
	if endpoint == "" {
		endpoint = "https://api.mainnet-beta.solana.com"
	}
	return &RPCClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 20 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rpc request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode rpc response: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("failed to unmarshal rpc result: %w", err)
	}
	return nil
}

// SOLBalance returns the native SOL balance of an address.
func (c *RPCClient) SOLBalance(ctx context.Context, address string) (float64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{address}, &result); err != nil {
		return 0, err
	}
	return float64(result.Value) / lamportsPerSOL, nil
}

// TokenBalance holds a parsed SPL token account balance.
type TokenBalance struct {
	Mint   string
	Amount float64
}

// TokenBalances returns the SPL token balances held by an address.
func (c *RPCClient) TokenBalances(ctx context.Context, address string) ([]TokenBalance, error) {
	params := []any{
		address,
		map[string]string{"programId": tokenProgramID},
		map[string]string{"encoding": "jsonParsed"},
	}

	var result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							Mint        string `json:"mint"`
							TokenAmount struct {
								UIAmount float64 `json:"uiAmount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}

	balances := make([]TokenBalance, 0, len(result.Value))
	for _, acc := range result.Value {
		info := acc.Account.Data.Parsed.Info
		if info.TokenAmount.UIAmount <= 0 {
			continue
		}
		balances = append(balances, TokenBalance{Mint: info.Mint, Amount: info.TokenAmount.UIAmount})
	}
	return balances, nil
}
