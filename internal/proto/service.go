package proto

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "notekeeper.v1.Backend"

// Full method names, as seen by interceptors.
const (
	MethodPing               = "/" + ServiceName + "/Ping"
	MethodSignUp             = "/" + ServiceName + "/SignUp"
	MethodSignInWithPassword = "/" + ServiceName + "/SignInWithPassword"
	MethodSignInWithIdp      = "/" + ServiceName + "/SignInWithIdp"
	MethodRefreshToken       = "/" + ServiceName + "/RefreshToken"
	MethodGetAccount         = "/" + ServiceName + "/GetAccount"
	MethodReauthenticate     = "/" + ServiceName + "/Reauthenticate"
	MethodDeleteAccount      = "/" + ServiceName + "/DeleteAccount"
	MethodCreateNote         = "/" + ServiceName + "/CreateNote"
	MethodListNotes          = "/" + ServiceName + "/ListNotes"
	MethodDeleteNote         = "/" + ServiceName + "/DeleteNote"
	MethodIssueIdpToken      = "/" + ServiceName + "/IssueIdpToken"
)

// BackendServer is implemented by the backend emulator.
type BackendServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	SignUp(context.Context, *SignUpRequest) (*Session, error)
	SignInWithPassword(context.Context, *SignInWithPasswordRequest) (*Session, error)
	SignInWithIdp(context.Context, *SignInWithIdpRequest) (*Session, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*Session, error)
	GetAccount(context.Context, *GetAccountRequest) (*Account, error)
	Reauthenticate(context.Context, *ReauthenticateRequest) (*Session, error)
	DeleteAccount(context.Context, *DeleteAccountRequest) (*DeleteAccountResponse, error)
	CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	IssueIdpToken(context.Context, *IssueIdpTokenRequest) (*IssueIdpTokenResponse, error)
}

// BackendServiceDesc describes the service for grpc.Server.RegisterService.
var BackendServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", BackendServer.Ping),
		unary("SignUp", BackendServer.SignUp),
		unary("SignInWithPassword", BackendServer.SignInWithPassword),
		unary("SignInWithIdp", BackendServer.SignInWithIdp),
		unary("RefreshToken", BackendServer.RefreshToken),
		unary("GetAccount", BackendServer.GetAccount),
		unary("Reauthenticate", BackendServer.Reauthenticate),
		unary("DeleteAccount", BackendServer.DeleteAccount),
		unary("CreateNote", BackendServer.CreateNote),
		unary("ListNotes", BackendServer.ListNotes),
		unary("DeleteNote", BackendServer.DeleteNote),
		unary("IssueIdpToken", BackendServer.IssueIdpToken),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}

// RegisterBackendServer attaches srv to s.
func RegisterBackendServer(s grpc.ServiceRegistrar, srv BackendServer) {
	s.RegisterService(&BackendServiceDesc, srv)
}

// unary adapts a typed BackendServer method to grpc. The request is decoded
// from its protobuf form before interceptors run; the response is encoded
// after the handler returns.
func unary[Req, Resp any, PReq wirePtr[Req], PResp wirePtr[Resp]](name string, call func(BackendServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			wire := newMessage(PReq(new(Req)).messageName())
			if err := dec(wire); err != nil {
				return nil, err
			}
			in := decode[Req, PReq](wire)

			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := call(srv.(BackendServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				if resp == nil {
					resp = new(Resp)
				}
				return encode(PResp(resp)), nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// BackendClient is the client side of the service.
type BackendClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*Session, error)
	SignInWithPassword(ctx context.Context, in *SignInWithPasswordRequest, opts ...grpc.CallOption) (*Session, error)
	SignInWithIdp(ctx context.Context, in *SignInWithIdpRequest, opts ...grpc.CallOption) (*Session, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*Session, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error)
	Reauthenticate(ctx context.Context, in *ReauthenticateRequest, opts ...grpc.CallOption) (*Session, error)
	DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error)
	CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error)
	IssueIdpToken(ctx context.Context, in *IssueIdpTokenRequest, opts ...grpc.CallOption) (*IssueIdpTokenResponse, error)
}

type backendClient struct {
	cc grpc.ClientConnInterface
}

func NewBackendClient(cc grpc.ClientConnInterface) BackendClient {
	return &backendClient{cc: cc}
}

// invoke sends in as protobuf with grpc's default codec and decodes the reply.
func invoke[Resp any, PResp wirePtr[Resp]](ctx context.Context, cc grpc.ClientConnInterface, method string, in wireMessage, opts []grpc.CallOption) (*Resp, error) {
	reply := newMessage(PResp(new(Resp)).messageName())
	if err := cc.Invoke(ctx, method, encode(in), reply, opts...); err != nil {
		return nil, err
	}
	return decode[Resp, PResp](reply), nil
}

func (c *backendClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *backendClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodSignUp, in, opts)
}

func (c *backendClient) SignInWithPassword(ctx context.Context, in *SignInWithPasswordRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodSignInWithPassword, in, opts)
}

func (c *backendClient) SignInWithIdp(ctx context.Context, in *SignInWithIdpRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodSignInWithIdp, in, opts)
}

func (c *backendClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *backendClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodGetAccount, in, opts)
}

func (c *backendClient) Reauthenticate(ctx context.Context, in *ReauthenticateRequest, opts ...grpc.CallOption) (*Session, error) {
	return invoke[Session](ctx, c.cc, MethodReauthenticate, in, opts)
}

func (c *backendClient) DeleteAccount(ctx context.Context, in *DeleteAccountRequest, opts ...grpc.CallOption) (*DeleteAccountResponse, error) {
	return invoke[DeleteAccountResponse](ctx, c.cc, MethodDeleteAccount, in, opts)
}

func (c *backendClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error) {
	return invoke[CreateNoteResponse](ctx, c.cc, MethodCreateNote, in, opts)
}

func (c *backendClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	return invoke[ListNotesResponse](ctx, c.cc, MethodListNotes, in, opts)
}

func (c *backendClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error) {
	return invoke[DeleteNoteResponse](ctx, c.cc, MethodDeleteNote, in, opts)
}

func (c *backendClient) IssueIdpToken(ctx context.Context, in *IssueIdpTokenRequest, opts ...grpc.CallOption) (*IssueIdpTokenResponse, error) {
	return invoke[IssueIdpTokenResponse](ctx, c.cc, MethodIssueIdpToken, in, opts)
}
