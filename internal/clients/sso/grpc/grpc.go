package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ssov1 "github.com/Nergous/sso_protos/gen/go/sso"

	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpcretry "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
)

// Client talks to the SSO service that issues admin tokens.
type Client struct {
	conn *grpc.ClientConn
	auth ssov1.AuthClient
	app  ssov1.AppClient
	log  *slog.Logger
}

func New(
	ctx context.Context,
	log *slog.Logger,
	addr string,
	timeout time.Duration,
	retriesCount int,
) (*Client, error) {
	const op = "grpc.New"

	retryOpts := []grpcretry.CallOption{
		grpcretry.WithCodes(codes.NotFound, codes.Aborted, codes.DeadlineExceeded),
		grpcretry.WithMax(uint(retriesCount)),
		grpcretry.WithPerRetryTimeout(timeout),
	}

	logOpts := []grpclog.Option{
		grpclog.WithLogOnEvents(grpclog.FinishCall),
	}

	cc, err := grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			grpclog.UnaryClientInterceptor(InterceptorLogger(log), logOpts...),
			grpcretry.UnaryClientInterceptor(retryOpts...),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		conn: cc,
		auth: ssov1.NewAuthClient(cc),
		app:  ssov1.NewAppClient(cc),
		log:  log,
	}, nil
}

func InterceptorLogger(l *slog.Logger) grpclog.Logger {
	return grpclog.LoggerFunc(func(ctx context.Context, lvl grpclog.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) ValidateToken(ctx context.Context, token string) (uint32, bool, error) {
	resp, err := c.auth.ValidateToken(ctx, &ssov1.ValidateTokenRequest{Token: token})
	if err != nil {
		c.log.Error("sso.ValidateToken failed", slog.String("error", err.Error()))
		return 0, false, err
	}

	return resp.GetUserId(), resp.GetValid(), nil
}

func (c *Client) IsAdmin(ctx context.Context, userID uint32, appID uint32) (bool, error) {
	resp, err := c.app.IsAdmin(ctx, &ssov1.IsAdminRequest{UserId: userID, AppId: appID})
	if err != nil {
		c.log.Error("sso.IsAdmin failed", slog.String("error", err.Error()))
		return false, err
	}

	return resp.GetIsAdmin(), nil
}
