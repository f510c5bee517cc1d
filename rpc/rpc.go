package rpc

import (
	"net"
	"net/rpc"

	"github.com/nitishkumar2303/doodlequest/logger"
	"github.com/nitishkumar2303/doodlequest/models"
	"github.com/nitishkumar2303/doodlequest/persistence"
)

// Server manages the RPC listener for the admin surface.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsService exposes per-account match aggregates over net/rpc.
type StatsService struct {
	gateway persistence.Gateway
}

func NewStatsService(gateway persistence.Gateway) *StatsService {
	return &StatsService{gateway: gateway}
}

type GetAccountStatsArgs struct {
	AccountID int64
}

type GetAccountStatsReply struct {
	Stats models.AccountStats
}

func (s *StatsService) GetAccountStats(args *GetAccountStatsArgs, reply *GetAccountStatsReply) error {
	stats, err := s.gateway.GetAccountStats(args.AccountID)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
