// Package client реализует HTTP клиент API провайдера SMM услуг: один эндпоинт,
// form-encoded POST с общим ключом и полем action.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	actionAdd      = "add"
	actionStatus   = "status"
	actionServices = "services"
)

// DefaultTimeout лимит на один запрос к провайдеру.
const DefaultTimeout = 15 * time.Second

const notEnoughFundsMarker = "not_enough_funds"

// HTTPClient является реализацией интерфейса provider.Client.
type HTTPClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func New(apiURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

type addResponse struct {
	Order json.Number `json:"order"`
	Error string      `json:"error"`
}

// AddOrder регистрирует заказ у провайдера и возвращает внешний id.
// Ошибка "not_enough_funds" в теле ответа возвращается как NotEnoughFundsError,
// прочие структурные ошибки - как APIError.
func (c *HTTPClient) AddOrder(ctx context.Context, serviceID int64, link string, quantity int) (string, error) {
	form := url.Values{}
	form.Set("action", actionAdd)
	form.Set("service", strconv.FormatInt(serviceID, 10))
	form.Set("link", link)
	form.Set("quantity", strconv.Itoa(quantity))

	body, reqErr := c.do(ctx, form)
	if reqErr != nil {
		return "", reqErr
	}

	var resp addResponse
	if jsonErr := json.Unmarshal(body, &resp); jsonErr != nil {
		return "", fmt.Errorf("parse add response: %s", jsonErr.Error())
	}

	if resp.Error != "" {
		if strings.Contains(resp.Error, notEnoughFundsMarker) {
			return "", NewNotEnoughFundsError(resp.Error)
		}
		return "", NewAPIError(resp.Error)
	}
	if resp.Order.String() == "" {
		return "", NewAPIError("response has no order id")
	}

	return resp.Order.String(), nil
}

type statusResponse struct {
	Status     string          `json:"status"`
	StartCount json.Number     `json:"start_count"`
	Remains    json.Number     `json:"remains"`
	Charge     decimal.Decimal `json:"charge"`
	Error      string          `json:"error"`
}

// StatusResponse статус заказа у провайдера. StartCount и Remains опциональны:
// провайдер не присылает их, пока заказ не стартовал.
type StatusResponse struct {
	Status     string
	StartCount *int
	Remains    *int
	Charge     decimal.Decimal
}

func (c *HTTPClient) OrderStatus(ctx context.Context, externalID string) (*StatusResponse, error) {
	form := url.Values{}
	form.Set("action", actionStatus)
	form.Set("order", externalID)

	body, reqErr := c.do(ctx, form)
	if reqErr != nil {
		return nil, reqErr
	}

	var resp statusResponse
	if jsonErr := json.Unmarshal(body, &resp); jsonErr != nil {
		return nil, fmt.Errorf("parse status response: %s", jsonErr.Error())
	}
	if resp.Error != "" {
		return nil, NewAPIError(resp.Error)
	}
	if resp.Status == "" {
		return nil, NewAPIError("response has no status")
	}

	return &StatusResponse{
		Status:     resp.Status,
		StartCount: numberToIntPtr(resp.StartCount),
		Remains:    numberToIntPtr(resp.Remains),
		Charge:     resp.Charge,
	}, nil
}

// ServiceItem услуга из выгрузки каталога провайдера.
type ServiceItem struct {
	ServiceID int64           `json:"service"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Rate      decimal.Decimal `json:"rate"`
	Min       int             `json:"min"`
	Max       int             `json:"max"`
}

func (c *HTTPClient) Services(ctx context.Context) ([]ServiceItem, error) {
	form := url.Values{}
	form.Set("action", actionServices)

	body, reqErr := c.do(ctx, form)
	if reqErr != nil {
		return nil, reqErr
	}

	var items []ServiceItem
	if jsonErr := json.Unmarshal(body, &items); jsonErr != nil {
		return nil, fmt.Errorf("parse services response: %s", jsonErr.Error())
	}
	return items, nil
}

// do выполняет form-encoded POST с ключом провайдера и возвращает тело ответа.
//
//nolint:nonamedreturns
func (c *HTTPClient) do(ctx context.Context, form url.Values) (body []byte, err error) {
	form.Set("key", c.apiKey)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do request: %w", doErr)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusCodeError(resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("read response: %s", readErr.Error())
	}
	return body, nil
}

func numberToIntPtr(n json.Number) *int {
	if n.String() == "" {
		return nil
	}
	value, err := n.Int64()
	if err != nil {
		return nil
	}
	intValue := int(value)
	return &intValue
}
