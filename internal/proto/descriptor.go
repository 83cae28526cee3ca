package proto

import (
	gproto "google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// FileName is the path of backend.proto within the descriptor registry.
const FileName = "notekeeper/v1/backend.proto"

// File is the descriptor of backend.proto, built at init. Messages travel as
// dynamicpb messages of this file, so grpc's default proto codec encodes them.
var File protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(backendFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	File = fd
}

const (
	typeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

type fieldSpec struct {
	name     string
	typ      descriptorpb.FieldDescriptorProto_Type
	typeName string
	repeated bool
}

func str(name string) fieldSpec { return fieldSpec{name: name, typ: typeString} }

func msg(name, typeName string) fieldSpec {
	return fieldSpec{name: name, typ: typeMessage, typeName: typeName}
}

func list(name, typeName string) fieldSpec {
	return fieldSpec{name: name, typ: typeMessage, typeName: typeName, repeated: true}
}

func message(name string, fields ...fieldSpec) *descriptorpb.DescriptorProto {
	m := &descriptorpb.DescriptorProto{Name: gproto.String(name)}
	for i, f := range fields {
		label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		if f.repeated {
			label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
		}
		fp := &descriptorpb.FieldDescriptorProto{
			Name:   gproto.String(f.name),
			Number: gproto.Int32(int32(i + 1)),
			Label:  label.Enum(),
			Type:   f.typ.Enum(),
		}
		if f.typeName != "" {
			fp.TypeName = gproto.String(f.typeName)
		}
		m.Field = append(m.Field, fp)
	}
	return m
}

func rpc(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       gproto.String(name),
		InputType:  gproto.String(".notekeeper.v1." + in),
		OutputType: gproto.String(".notekeeper.v1." + out),
	}
}

// backendFileProto mirrors backend.proto field for field.
func backendFileProto() *descriptorpb.FileDescriptorProto {
	const (
		providerInfo = ".notekeeper.v1.ProviderInfo"
		account      = ".notekeeper.v1.Account"
		credential   = ".notekeeper.v1.Credential"
		note         = ".notekeeper.v1.Note"
		timestamp    = ".google.protobuf.Timestamp"
	)

	return &descriptorpb.FileDescriptorProto{
		Name:       gproto.String(FileName),
		Package:    gproto.String("notekeeper.v1"),
		Syntax:     gproto.String("proto3"),
		Dependency: []string{timestamppb.File_google_protobuf_timestamp_proto.Path()},
		Options: &descriptorpb.FileOptions{
			GoPackage: gproto.String("github.com/dmitrijs2005/notekeeper/internal/proto"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("ProviderInfo", str("provider_id"), str("email")),
			message("Account", str("user_id"), str("email"), list("providers", providerInfo)),
			message("Session", str("access_token"), str("refresh_token"), msg("account", account)),
			message("Credential", str("provider_id"), str("email"), str("password"), str("id_token")),
			message("Note", str("id"), str("owner_id"), str("title"), str("content"), msg("created_at", timestamp)),
			message("PingRequest"),
			message("PingResponse", str("status")),
			message("SignUpRequest", str("email"), str("password")),
			message("SignInWithPasswordRequest", str("email"), str("password")),
			message("SignInWithIdpRequest", str("provider_id"), str("id_token")),
			message("RefreshTokenRequest", str("refresh_token")),
			message("GetAccountRequest"),
			message("ReauthenticateRequest", msg("credential", credential)),
			message("DeleteAccountRequest"),
			message("DeleteAccountResponse"),
			message("CreateNoteRequest", msg("note", note)),
			message("CreateNoteResponse", str("id")),
			message("ListNotesRequest", str("owner_id")),
			message("ListNotesResponse", list("notes", note)),
			message("DeleteNoteRequest", str("id")),
			message("DeleteNoteResponse"),
			message("IssueIdpTokenRequest", str("email")),
			message("IssueIdpTokenResponse", str("id_token")),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: gproto.String("Backend"),
			Method: []*descriptorpb.MethodDescriptorProto{
				rpc("Ping", "PingRequest", "PingResponse"),
				rpc("SignUp", "SignUpRequest", "Session"),
				rpc("SignInWithPassword", "SignInWithPasswordRequest", "Session"),
				rpc("SignInWithIdp", "SignInWithIdpRequest", "Session"),
				rpc("RefreshToken", "RefreshTokenRequest", "Session"),
				rpc("GetAccount", "GetAccountRequest", "Account"),
				rpc("Reauthenticate", "ReauthenticateRequest", "Session"),
				rpc("DeleteAccount", "DeleteAccountRequest", "DeleteAccountResponse"),
				rpc("CreateNote", "CreateNoteRequest", "CreateNoteResponse"),
				rpc("ListNotes", "ListNotesRequest", "ListNotesResponse"),
				rpc("DeleteNote", "DeleteNoteRequest", "DeleteNoteResponse"),
				rpc("IssueIdpToken", "IssueIdpTokenRequest", "IssueIdpTokenResponse"),
			},
		}},
	}
}
