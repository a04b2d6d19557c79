package models

import "errors"

var (
	ErrInvalidInstrument = errors.New("invalid instrument ID")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
	ErrInvalidCandle     = errors.New("invalid candle (high < low)")
	ErrInvalidVolume     = errors.New("invalid volume")
	ErrInvalidDriverName = errors.New("invalid driver name")
	ErrInvalidDriverList = errors.New("invalid driver list name")
	ErrInvalidAlertID    = errors.New("invalid alert ID")
	ErrInvalidSignal     = errors.New("invalid signal category")
)
