package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"fleetops/pkg/model"
)

type DriverClient struct {
	httpClient *HttpClient
}

func NewDriverClient(baseUrl string) *DriverClient {
	return &DriverClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *DriverClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/drivers", body)
}

func (c *DriverClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/drivers?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *DriverClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/drivers/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *DriverClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/drivers/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *DriverClient) Delete(id string) (*Response, error) {
	path := "/api/v1/drivers/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *DriverClient) DecodeDrivers(resp *Response) ([]*model.Driver, int64, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, 0, fmt.Errorf("could not decode drivers wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var drivers []*model.Driver
	if err := json.Unmarshal(wrapper.Data, &drivers); err != nil {
		return nil, 0, fmt.Errorf("could not decode drivers: %s", err)
	}

	return drivers, wrapper.TotalCount, nil
}

func (c *DriverClient) DecodeDriver(resp *Response) (*model.Driver, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode driver wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var driver model.Driver
	if err := json.Unmarshal(wrapper.Data, &driver); err != nil {
		return nil, fmt.Errorf("could not decode driver: %s", err)
	}

	return &driver, nil
}
