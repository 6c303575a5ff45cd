package service

import (
	"context"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"
	"golang.ngrok.com/ngrok/v2"
)

// NgrokService exposes the local diary server through an ngrok tunnel so the
// PWA can be reached from a phone without port forwarding.
// NgrokService 通过 ngrok 隧道暴露本地日记服务，手机无需端口转发即可访问 PWA。
type NgrokService interface {
	Start(ctx context.Context, addr string) error
	Stop(ctx context.Context) error
	TunnelURL() string
}

type ngrokService struct {
	logger    *zap.Logger
	authToken string
	domain    string
	listener  net.Listener
	url       string
	agent     ngrok.Agent
}

// NewNgrokService creates a new ngrok service
// NewNgrokService 创建一个新的 ngrok 服务
func NewNgrokService(logger *zap.Logger, authToken, domain string) NgrokService {
	return &ngrokService{
		logger:    logger,
		authToken: authToken,
		domain:    domain,
	}
}

// Start opens the tunnel and begins forwarding it to the local listen addr.
// Start 建立隧道并将流量转发到本地监听地址。
func (s *ngrokService) Start(ctx context.Context, addr string) error {
	if s.authToken == "" {
		return fmt.Errorf("ngrok auth token is required")
	}

	agent, err := ngrok.NewAgent(ngrok.WithAuthtoken(s.authToken))
	if err != nil {
		return fmt.Errorf("failed to create ngrok agent: %w", err)
	}
	s.agent = agent

	var endpointOpts []ngrok.EndpointOption
	if s.domain != "" {
		endpointOpts = append(endpointOpts, ngrok.WithURL("https://"+s.domain))
	}

	ln, err := agent.Listen(ctx, endpointOpts...)
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}
	s.listener = ln

	s.url = ln.URL().String()

	s.logger.Info("ngrok tunnel established", zap.String("url", s.url))

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				s.logger.Debug("ngrok tunnel accept error (likely closed)", zap.Error(err))
				return
			}
			go s.forward(conn, addr)
		}
	}()

	return nil
}

// forward pipes one tunneled connection to the local server.
// forward 将一条隧道连接与本地服务之间双向转发。
func (s *ngrokService) forward(conn net.Conn, addr string) {
	defer conn.Close()
	localConn, err := net.Dial("tcp", addr)
	if err != nil {
		s.logger.Error("failed to dial local address", zap.String("addr", addr), zap.Error(err))
		return
	}
	defer localConn.Close()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(localConn, conn)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(conn, localConn)
		done <- struct{}{}
	}()
	<-done
}

// Stop tears down the tunnel
// Stop 停止 ngrok 隧道
func (s *ngrokService) Stop(ctx context.Context) error {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}
	if s.agent != nil {
		if err := s.agent.Disconnect(); err != nil {
			s.logger.Warn("failed to disconnect ngrok agent", zap.Error(err))
		}
	}
	return nil
}

// TunnelURL returns the current tunnel URL, empty when the tunnel is down.
// TunnelURL 返回当前隧道 URL，隧道未建立时为空。
func (s *ngrokService) TunnelURL() string {
	return s.url
}
