package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Client клиент сервиса каталога (бизнесы, услуги, расписания мастеров)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает описание услуги бизнеса
func (c *Client) GetService(ctx context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/services/%d", c.baseURL, businessID, serviceID)

	var service Service
	if err := c.get(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}

	return service.toDomain(), nil
}

// GetStaffProfile получает расписание мастера
func (c *Client) GetStaffProfile(ctx context.Context, staffID int64) (*domain.StaffAvailabilityProfile, error) {
	url := fmt.Sprintf("%s/internal/staff/%d/availability", c.baseURL, staffID)

	var profile StaffProfile
	if err := c.get(ctx, url, ErrStaffNotFound, &profile); err != nil {
		return nil, err
	}
	if profile.StaffID == 0 {
		profile.StaffID = staffID
	}

	return profile.toDomain(), nil
}

// GetBusiness получает бизнес вместе со списком менеджеров
func (c *Client) GetBusiness(ctx context.Context, businessID int64) (*Business, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d", c.baseURL, businessID)

	var business Business
	if err := c.get(ctx, url, ErrBusinessNotFound, &business); err != nil {
		return nil, err
	}

	return &business, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Catalog request failed: url=%s, error=%v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("Catalog unexpected status: url=%s, status=%d", url, resp.StatusCode)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
