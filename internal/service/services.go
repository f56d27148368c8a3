package service

import (
	postgres "github.com/eventfold/bids-go/internal/repository/postgres"
	redis "github.com/eventfold/bids-go/internal/repository/redis"
	"github.com/eventfold/bids-go/internal/service/bids"
	"github.com/eventfold/bids-go/internal/service/query"
)

type Services struct {
	Bids  *bids.Service
	Query *query.Service
}

type Config struct {
	Bids  bids.Config
	Query query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.BidsPubSub,
	cfg Config,
) *Services {
	return &Services{
		Bids:  bids.New(store, cache, pubsub, cfg.Bids),
		Query: query.New(store, cache, cfg.Query),
	}
}
