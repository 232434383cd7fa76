package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/buddyctl/internal/buddy"
)

// PairingStatus is the outcome of a pairing attempt.
type PairingStatus string

const (
	PairingStarted  PairingStatus = "PairingStarted"
	AlreadyPaired   PairingStatus = "AlreadyPaired"
	VersionMismatch PairingStatus = "VersionMismatch"
	PairingPending  PairingStatus = "Pairing"
	NoClientID      PairingStatus = "NoClientId"
	Offline         PairingStatus = "Offline"
	PairingFailed   PairingStatus = "Failed"
)

// StartPairing asks Buddy to begin pairing with pin. It checks the API
// version and the current pairing state first, so an already paired or
// pending client is reported instead of restarted. The returned error, when
// set, explains an Offline or Failed status.
func StartPairing(ctx context.Context, host Host, clientID string, supportedVersion, pin int) (PairingStatus, error) {
	if strings.TrimSpace(clientID) == "" {
		return NoClientID, nil
	}

	status := PairingFailed
	err := host.Do(ctx, func(ctx context.Context, ops buddy.Operations) error {
		version, err := ops.APIVersion(ctx)
		if err != nil {
			return err
		}
		if version.Version != supportedVersion {
			status = VersionMismatch
			return nil
		}

		current, err := ops.PairingState(ctx)
		if err != nil {
			return err
		}
		switch current.State {
		case buddy.PairingStatePaired:
			status = AlreadyPaired
			return nil
		case buddy.PairingStatePairing:
			status = PairingPending
			return nil
		}

		resp, err := ops.StartPairing(ctx, pin)
		if err != nil {
			return err
		}
		if !resp.Result {
			return fmt.Errorf("buddy refused to start pairing")
		}
		status = PairingStarted
		return nil
	})
	if err != nil {
		return classifyFailure(err), err
	}
	return status, nil
}

// AbortPairing cancels a pending pairing request.
func AbortPairing(ctx context.Context, host Host) error {
	return host.Do(ctx, func(ctx context.Context, ops buddy.Operations) error {
		resp, err := ops.AbortPairing(ctx)
		if err != nil {
			return err
		}
		if !resp.Result {
			return fmt.Errorf("buddy refused to abort pairing")
		}
		return nil
	})
}

func classifyFailure(err error) PairingStatus {
	var terr *buddy.TransportError
	if errors.As(err, &terr) {
		return Offline
	}
	return PairingFailed
}
