package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"fleetops/pkg/model"
)

type VehicleClient struct {
	httpClient *HttpClient
}

func NewVehicleClient(baseUrl string) *VehicleClient {
	return &VehicleClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *VehicleClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/vehicles", body)
}

func (c *VehicleClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/vehicles?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *VehicleClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/vehicles/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *VehicleClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/vehicles/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *VehicleClient) Delete(id string) (*Response, error) {
	path := "/api/v1/vehicles/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *VehicleClient) DecodeVehicle(resp *Response) (*model.Vehicle, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode vehicle wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var vehicle model.Vehicle
	if err := json.Unmarshal(wrapper.Data, &vehicle); err != nil {
		return nil, fmt.Errorf("could not decode vehicle: %s", err)
	}

	return &vehicle, nil
}
