package server

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

// HandleAPIGateway serves an API Gateway HTTP API event through the same
// router used by the standalone server. Non UTF-8 bodies, such as gzipped
// metrics, come back base64 encoded.
func (s *Server) HandleAPIGateway(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return s.adapter.ProxyWithContext(ctx, ev)
}
