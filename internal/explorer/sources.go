package explorer

import (
	"go.uber.org/zap"

	"github.com/usdt-market/backend/internal/config"
	"github.com/usdt-market/backend/internal/models"
)

// NewSources builds one Client per network that has a deposit wallet.
func NewSources(cfg *config.Config, log *zap.Logger) []Source {
	opts := Options{
		Timeout:         cfg.ExplorerTimeout,
		BreakerFailures: cfg.ExplorerBreakerFailures,
		BreakerCooldown: cfg.ExplorerBreakerCooldown,
	}

	var sources []Source
	for _, network := range cfg.Networks() {
		var adapter Adapter
		switch network {
		case models.NetworkTRC20:
			adapter = NewTronGrid(cfg.TronGridURL, cfg.TronGridAPIKey, cfg.ExplorerPageLimit)
		case models.NetworkERC20:
			adapter = NewEtherscan(network, cfg.EtherscanURL, cfg.EtherscanAPIKey, cfg.ExplorerPageLimit)
		case models.NetworkBEP20:
			adapter = NewEtherscan(network, cfg.BscScanURL, cfg.BscScanAPIKey, cfg.ExplorerPageLimit)
		default:
			continue
		}
		sources = append(sources, NewClient(adapter, opts, log))
	}
	return sources
}
