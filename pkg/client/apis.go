package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/api"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
)

func (c *Client) GetFrame() (*api.FrameResponse, error) {
	ret, err := c.Get("/frame")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get frame")
	}

	var f api.FrameResponse
	if err := json.Unmarshal([]byte(ret), &f); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal frame")
	}
	return &f, nil
}

func (c *Client) GetSnapshot() (*powerinfo.Snapshot, error) {
	ret, err := c.Get("/snapshot")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get snapshot")
	}

	var s powerinfo.Snapshot
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal snapshot")
	}
	return &s, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &conf, nil
}

func (c *Client) GetTicks() (*api.TicksResponse, error) {
	ret, err := c.Get("/ticks")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get ticks")
	}

	var t api.TicksResponse
	if err := json.Unmarshal([]byte(ret), &t); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal ticks")
	}
	return &t, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
