// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package caip implements the chain-agnostic identifiers used to address
// networks ("namespace:reference") and accounts
// ("namespace:reference:address") across every supported namespace.
package caip

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	EVM     Namespace = "eip155"
	Solana  Namespace = "solana"
	Bitcoin Namespace = "bip122"
	TON     Namespace = "ton"

	separator = ":"
)

var (
	ErrInvalidNamespace = errors.New("invalid namespace")
	ErrInvalidNetworkID = errors.New("invalid network id")
	ErrInvalidAddress   = errors.New("invalid address")

	namespaceRegex = regexp.MustCompile(`^[-a-z0-9]{3,8}$`)
	referenceRegex = regexp.MustCompile(`^[-_a-zA-Z0-9]{1,32}$`)
	accountRegex   = regexp.MustCompile(`^[-.%a-zA-Z0-9]{1,128}$`)
)

// Namespace is a class of chains that share an address and RPC format.
type Namespace string

func (n Namespace) String() string {
	return string(n)
}

func (n Namespace) Verify() error {
	if !namespaceRegex.MatchString(string(n)) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, string(n))
	}
	return nil
}

// NetworkID is a CAIP-2 chain id, such as "eip155:1".
type NetworkID string

func NewNetworkID(namespace Namespace, reference string) NetworkID {
	return NetworkID(string(namespace) + separator + reference)
}

// ParseNetworkID splits [s] into its namespace and chain reference.
func ParseNetworkID(s string) (Namespace, string, error) {
	namespace, reference, ok := strings.Cut(s, separator)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidNetworkID, s)
	}
	if err := Namespace(namespace).Verify(); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidNetworkID, err)
	}
	if !referenceRegex.MatchString(reference) {
		return "", "", fmt.Errorf("%w: bad reference %q", ErrInvalidNetworkID, reference)
	}
	return Namespace(namespace), reference, nil
}

func (id NetworkID) String() string {
	return string(id)
}

// Namespace returns the namespace part of the id, or "" if the id is malformed.
func (id NetworkID) Namespace() Namespace {
	namespace, _, ok := strings.Cut(string(id), separator)
	if !ok {
		return ""
	}
	return Namespace(namespace)
}

// Reference returns the chain reference part of the id.
func (id NetworkID) Reference() string {
	_, reference, _ := strings.Cut(string(id), separator)
	return reference
}

// Address is a CAIP-10 account id, such as "eip155:1:0xab16...".
type Address string

func NewAddress(networkID NetworkID, address string) Address {
	return Address(string(networkID) + separator + address)
}

// ParseAddress splits [s] into the network the account lives on and its plain
// address.
func ParseAddress(s string) (NetworkID, string, error) {
	parts := strings.SplitN(s, separator, 3)
	if len(parts) != 3 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	namespace, reference, err := ParseNetworkID(parts[0] + separator + parts[1])
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if !accountRegex.MatchString(parts[2]) {
		return "", "", fmt.Errorf("%w: bad account %q", ErrInvalidAddress, parts[2])
	}
	return NewNetworkID(namespace, reference), parts[2], nil
}

func (a Address) String() string {
	return string(a)
}

// NetworkID returns the network part of the address, or "" if malformed.
func (a Address) NetworkID() NetworkID {
	networkID, _, err := ParseAddress(string(a))
	if err != nil {
		return ""
	}
	return networkID
}

// PlainAddress returns the account part of the address, or "" if malformed.
func (a Address) PlainAddress() string {
	_, address, err := ParseAddress(string(a))
	if err != nil {
		return ""
	}
	return address
}

// NormalizeAddress returns the canonical form of [address] in [namespace].
// Well formed EVM addresses are EIP-55 checksummed. Everything else is
// returned unchanged.
func NormalizeAddress(namespace Namespace, address string) string {
	if namespace == EVM && common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}
