package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"fleetops/pkg/availability"
	"fleetops/pkg/model"
)

type TripClient struct {
	httpClient *HttpClient
}

func NewTripClient(baseUrl string) *TripClient {
	return &TripClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *TripClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/trips", body)
}

func (c *TripClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/trips?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *TripClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/trips/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *TripClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/trips/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *TripClient) Delete(id string) (*Response, error) {
	path := "/api/v1/trips/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

// Search fetches trips for a resource, optionally narrowed to one date.
func (c *TripClient) Search(driverID, vehicleID, date string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if driverID != "" {
		q.Set("driver_id", driverID)
	}
	if vehicleID != "" {
		q.Set("vehicle_id", vehicleID)
	}
	if date != "" {
		q.Set("date", date)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET("/api/v1/trips/search?" + q.Encode())
}

// CheckAvailability runs a slot check for a driver or vehicle.
func (c *TripClient) CheckAvailability(resourceType, resourceID, date, startTime, returnTime, excludeTripID string) (*Response, error) {
	q := url.Values{}
	q.Set("resource_type", resourceType)
	q.Set("resource_id", resourceID)
	q.Set("date", date)
	q.Set("start_time", startTime)
	if returnTime != "" {
		q.Set("return_time", returnTime)
	}
	if excludeTripID != "" {
		q.Set("exclude_trip_id", excludeTripID)
	}

	return c.httpClient.GET("/api/v1/trips/availability?" + q.Encode())
}

func (c *TripClient) DecodeSlotResult(resp *Response) (*availability.SlotResult, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode slot result wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var result availability.SlotResult
	if err := json.Unmarshal(wrapper.Data, &result); err != nil {
		return nil, fmt.Errorf("could not decode slot result: %s", err)
	}

	return &result, nil
}

func (c *TripClient) DecodeTrip(resp *Response) (*model.Trip, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode trip wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var trip model.Trip
	if err := json.Unmarshal(wrapper.Data, &trip); err != nil {
		return nil, fmt.Errorf("could not decode trip: %s", err)
	}

	return &trip, nil
}

func (c *TripClient) DecodeTrips(resp *Response) ([]*model.Trip, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode trips wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var trips []*model.Trip
	if err := json.Unmarshal(wrapper.Data, &trips); err != nil {
		return nil, fmt.Errorf("could not decode trips: %s", err)
	}

	return trips, nil
}
