package shop_test

import "testing"

func TestLivezEndpoint(t *testing.T) {
	baseURL := setupShopContainer(t)
	client := newClient(t, baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	baseURL := setupShopContainer(t)
	client := newClient(t, baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	if health.Checks["database"] != "ok" || health.Checks["templates"] != "ok" {
		t.Fatalf("unexpected checks: %v", health.Checks)
	}
}
