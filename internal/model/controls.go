package model

import "strings"

// FilterToken is a named lookback button.
type FilterToken string

const (
	FilterNone FilterToken = ""
	Filter1D   FilterToken = "1D"
	Filter1W   FilterToken = "1W"
	Filter1M   FilterToken = "1M"
)

// ParseFilterToken maps free text to a token. "none" and "" mean no filter pressed;
// anything else is kept as given so the resolver can apply its fallback.
func ParseFilterToken(s string) FilterToken {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "NONE" {
		return FilterNone
	}
	return FilterToken(s)
}

// ScaleState accumulates scale button clicks for the session.
type ScaleState struct {
	UpClicks   int `json:"up_clicks"`
	DownClicks int `json:"down_clicks"`
}

// Net returns UpClicks - DownClicks.
func (s ScaleState) Net() int {
	return s.UpClicks - s.DownClicks
}

// Controls are the inbound values read on every refresh.
type Controls struct {
	Symbol          string `json:"symbol" schema:"symbol"`
	ExpirationDate  string `json:"expiration" schema:"expiration"`
	Filter          string `json:"filter" schema:"filter"`
	ScaleUpClicks   int    `json:"scale_up" schema:"scale_up"`
	ScaleDownClicks int    `json:"scale_down" schema:"scale_down"`
}
