package sharing

import (
	"context"

	"go.uber.org/zap"

	"locshare/internal/domain"
	"locshare/internal/netmon"
)

// Service sends and retrieves pending mutual-sharing requests. Requests are
// plain identifiers over the relay; no encryption or caching is involved.
type Service struct {
	ids     domain.IdentityService
	relay   domain.RelayClient
	monitor *netmon.Monitor
	log     *zap.Logger
}

// New returns a sharing-request client.
func New(ids domain.IdentityService, relay domain.RelayClient, monitor *netmon.Monitor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ids: ids, relay: relay, monitor: monitor, log: log.Named("sharing")}
}

// SendRequest asks target to share locations with the local identity.
func (s *Service) SendRequest(ctx context.Context, target domain.PeerID) bool {
	id, err := s.ids.Current()
	if err != nil {
		s.log.Error("send request without identity", zap.Error(err))
		return false
	}
	res := netmon.Execute(ctx, s.monitor, "request_sharing/send", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.relay.SendSharingRequest(ctx, id.ID, target)
	})
	return res.Ok()
}

// PendingRequests lists peers waiting on a response from the local identity.
func (s *Service) PendingRequests(ctx context.Context) ([]domain.PeerID, bool) {
	id, err := s.ids.Current()
	if err != nil {
		s.log.Error("retrieve requests without identity", zap.Error(err))
		return nil, false
	}
	res := netmon.Execute(ctx, s.monitor, "request_sharing/retrieve", func(ctx context.Context) ([]domain.PeerID, error) {
		return s.relay.RetrieveSharingRequests(ctx, id.ID)
	})
	if !res.Ok() {
		return nil, false
	}
	return res.Value, true
}

var _ domain.SharingService = (*Service)(nil)
