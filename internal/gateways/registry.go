// Package gateways routes settlement traffic to the right payment processor
// and converts between wire minor units and decimal major units at that
// boundary.
package gateways

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adaezeobi/wasoko-backend/internal/fees"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
)

// Reference prefixes make gateway routing a pure function of the payment
// reference, so the verify path never has to guess which processor issued a
// charge.
const (
	referencePaystackPrefix    = "wsk-ps-"
	referenceFlutterwavePrefix = "wsk-fw-"
)

var (
	errPaystackRequired    = errors.New("paystack client is required")
	errFlutterwaveRequired = errors.New("flutterwave client is required")
)

// Registry holds one adapter per payment processor.
type Registry struct {
	clients map[enums.Gateway]gateway.Client
}

// NewRegistry wires both processor adapters. Both are mandatory: currency
// routing assumes every order has a reachable processor.
func NewRegistry(paystackClient, flutterwaveClient gateway.Client) (*Registry, error) {
	if paystackClient == nil {
		return nil, errPaystackRequired
	}
	if flutterwaveClient == nil {
		return nil, errFlutterwaveRequired
	}
	return &Registry{
		clients: map[enums.Gateway]gateway.Client{
			enums.GatewayPaystack:    paystackClient,
			enums.GatewayFlutterwave: flutterwaveClient,
		},
	}, nil
}

// ClientFor returns the adapter for a known gateway.
func (r *Registry) ClientFor(g enums.Gateway) (gateway.Client, error) {
	client, ok := r.clients[g]
	if !ok {
		return nil, fmt.Errorf("no client registered for gateway %q", g)
	}
	return client, nil
}

// ClientForCurrency routes a currency to its processor's adapter.
func (r *Registry) ClientForCurrency(currency string) gateway.Client {
	return r.clients[fees.GatewayFor(currency)]
}

// NewReference mints a fresh payment reference carrying its gateway prefix.
func NewReference(g enums.Gateway) string {
	suffix := uuid.NewString()
	if g == enums.GatewayFlutterwave {
		return referenceFlutterwavePrefix + suffix
	}
	return referencePaystackPrefix + suffix
}

// GatewayFromReference recovers the issuing gateway from a prefixed
// reference. References minted outside this system report ok=false and the
// caller falls back to asking each processor in turn.
func GatewayFromReference(reference string) (enums.Gateway, bool) {
	switch {
	case strings.HasPrefix(reference, referencePaystackPrefix):
		return enums.GatewayPaystack, true
	case strings.HasPrefix(reference, referenceFlutterwavePrefix):
		return enums.GatewayFlutterwave, true
	default:
		return "", false
	}
}
