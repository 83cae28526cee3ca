package proto

import (
	"time"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// wireMessage is implemented by every message type of this package. It copies
// the Go struct to and from its dynamic protobuf form.
type wireMessage interface {
	messageName() protoreflect.Name
	toWire(m protoreflect.Message)
	fromWire(m protoreflect.Message)
}

// wirePtr lets generic helpers allocate a T and use it as a wireMessage.
type wirePtr[T any] interface {
	*T
	wireMessage
}

func newMessage(name protoreflect.Name) *dynamicpb.Message {
	md := File.Messages().ByName(name)
	if md == nil {
		panic("proto: unknown message " + string(name))
	}
	return dynamicpb.NewMessage(md)
}

// encode returns v as a protobuf message of backend.proto.
func encode(v wireMessage) *dynamicpb.Message {
	m := newMessage(v.messageName())
	v.toWire(m)
	return m
}

// decode copies m into a new T.
func decode[T any, PT wirePtr[T]](m protoreflect.Message) *T {
	out := PT(new(T))
	out.fromWire(m)
	return (*T)(out)
}

func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(name)
	if fd == nil {
		panic("proto: " + string(m.Descriptor().FullName()) + " has no field " + string(name))
	}
	return fd
}

func setString(m protoreflect.Message, name protoreflect.Name, s string) {
	if s == "" {
		return
	}
	m.Set(field(m, name), protoreflect.ValueOfString(s))
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(field(m, name)).String()
}

func setMessage(m protoreflect.Message, name protoreflect.Name, v wireMessage) {
	fd := field(m, name)
	sub := m.NewField(fd).Message()
	v.toWire(sub)
	m.Set(fd, protoreflect.ValueOfMessage(sub))
}

func getMessage(m protoreflect.Message, name protoreflect.Name, v wireMessage) {
	fd := field(m, name)
	if !m.Has(fd) {
		return
	}
	v.fromWire(m.Get(fd).Message())
}

// setTime stores t as a google.protobuf.Timestamp. The zero time stays unset.
func setTime(m protoreflect.Message, name protoreflect.Name, t time.Time) {
	if t.IsZero() {
		return
	}
	fd := field(m, name)
	ts := m.NewField(fd).Message()
	tf := ts.Descriptor().Fields()
	ts.Set(tf.ByName("seconds"), protoreflect.ValueOfInt64(t.Unix()))
	ts.Set(tf.ByName("nanos"), protoreflect.ValueOfInt32(int32(t.Nanosecond())))
	m.Set(fd, protoreflect.ValueOfMessage(ts))
}

func getTime(m protoreflect.Message, name protoreflect.Name) time.Time {
	fd := field(m, name)
	if !m.Has(fd) {
		return time.Time{}
	}
	ts := m.Get(fd).Message()
	tf := ts.Descriptor().Fields()
	return time.Unix(ts.Get(tf.ByName("seconds")).Int(), ts.Get(tf.ByName("nanos")).Int()).UTC()
}

func setList[T any, PT wirePtr[T]](m protoreflect.Message, name protoreflect.Name, items []T) {
	if len(items) == 0 {
		return
	}
	l := m.Mutable(field(m, name)).List()
	for i := range items {
		elem := l.NewElement()
		PT(&items[i]).toWire(elem.Message())
		l.Append(elem)
	}
}

func getList[T any, PT wirePtr[T]](m protoreflect.Message, name protoreflect.Name) []T {
	l := m.Get(field(m, name)).List()
	if l.Len() == 0 {
		return nil
	}
	out := make([]T, l.Len())
	for i := range out {
		PT(&out[i]).fromWire(l.Get(i).Message())
	}
	return out
}

func (*ProviderInfo) messageName() protoreflect.Name { return "ProviderInfo" }

func (p *ProviderInfo) toWire(m protoreflect.Message) {
	setString(m, "provider_id", p.ProviderID)
	setString(m, "email", p.Email)
}

func (p *ProviderInfo) fromWire(m protoreflect.Message) {
	p.ProviderID = getString(m, "provider_id")
	p.Email = getString(m, "email")
}

func (*Account) messageName() protoreflect.Name { return "Account" }

func (a *Account) toWire(m protoreflect.Message) {
	setString(m, "user_id", a.UserID)
	setString(m, "email", a.Email)
	setList(m, "providers", a.Providers)
}

func (a *Account) fromWire(m protoreflect.Message) {
	a.UserID = getString(m, "user_id")
	a.Email = getString(m, "email")
	a.Providers = getList[ProviderInfo](m, "providers")
}

func (*Session) messageName() protoreflect.Name { return "Session" }

func (s *Session) toWire(m protoreflect.Message) {
	setString(m, "access_token", s.AccessToken)
	setString(m, "refresh_token", s.RefreshToken)
	setMessage(m, "account", &s.Account)
}

func (s *Session) fromWire(m protoreflect.Message) {
	s.AccessToken = getString(m, "access_token")
	s.RefreshToken = getString(m, "refresh_token")
	getMessage(m, "account", &s.Account)
}

func (*Credential) messageName() protoreflect.Name { return "Credential" }

func (c *Credential) toWire(m protoreflect.Message) {
	setString(m, "provider_id", c.ProviderID)
	setString(m, "email", c.Email)
	setString(m, "password", c.Password)
	setString(m, "id_token", c.IDToken)
}

func (c *Credential) fromWire(m protoreflect.Message) {
	c.ProviderID = getString(m, "provider_id")
	c.Email = getString(m, "email")
	c.Password = getString(m, "password")
	c.IDToken = getString(m, "id_token")
}

func (*Note) messageName() protoreflect.Name { return "Note" }

func (n *Note) toWire(m protoreflect.Message) {
	setString(m, "id", n.ID)
	setString(m, "owner_id", n.OwnerID)
	setString(m, "title", n.Title)
	setString(m, "content", n.Content)
	setTime(m, "created_at", n.CreatedAt)
}

func (n *Note) fromWire(m protoreflect.Message) {
	n.ID = getString(m, "id")
	n.OwnerID = getString(m, "owner_id")
	n.Title = getString(m, "title")
	n.Content = getString(m, "content")
	n.CreatedAt = getTime(m, "created_at")
}

func (*PingRequest) messageName() protoreflect.Name { return "PingRequest" }
func (*PingRequest) toWire(protoreflect.Message)    {}
func (*PingRequest) fromWire(protoreflect.Message)  {}

func (*PingResponse) messageName() protoreflect.Name { return "PingResponse" }

func (r *PingResponse) toWire(m protoreflect.Message)   { setString(m, "status", r.Status) }
func (r *PingResponse) fromWire(m protoreflect.Message) { r.Status = getString(m, "status") }

func (*SignUpRequest) messageName() protoreflect.Name { return "SignUpRequest" }

func (r *SignUpRequest) toWire(m protoreflect.Message) {
	setString(m, "email", r.Email)
	setString(m, "password", r.Password)
}

func (r *SignUpRequest) fromWire(m protoreflect.Message) {
	r.Email = getString(m, "email")
	r.Password = getString(m, "password")
}

func (*SignInWithPasswordRequest) messageName() protoreflect.Name {
	return "SignInWithPasswordRequest"
}

func (r *SignInWithPasswordRequest) toWire(m protoreflect.Message) {
	setString(m, "email", r.Email)
	setString(m, "password", r.Password)
}

func (r *SignInWithPasswordRequest) fromWire(m protoreflect.Message) {
	r.Email = getString(m, "email")
	r.Password = getString(m, "password")
}

func (*SignInWithIdpRequest) messageName() protoreflect.Name { return "SignInWithIdpRequest" }

func (r *SignInWithIdpRequest) toWire(m protoreflect.Message) {
	setString(m, "provider_id", r.ProviderID)
	setString(m, "id_token", r.IDToken)
}

func (r *SignInWithIdpRequest) fromWire(m protoreflect.Message) {
	r.ProviderID = getString(m, "provider_id")
	r.IDToken = getString(m, "id_token")
}

func (*RefreshTokenRequest) messageName() protoreflect.Name { return "RefreshTokenRequest" }

func (r *RefreshTokenRequest) toWire(m protoreflect.Message) {
	setString(m, "refresh_token", r.RefreshToken)
}

func (r *RefreshTokenRequest) fromWire(m protoreflect.Message) {
	r.RefreshToken = getString(m, "refresh_token")
}

func (*GetAccountRequest) messageName() protoreflect.Name { return "GetAccountRequest" }
func (*GetAccountRequest) toWire(protoreflect.Message)    {}
func (*GetAccountRequest) fromWire(protoreflect.Message)  {}

func (*ReauthenticateRequest) messageName() protoreflect.Name { return "ReauthenticateRequest" }

func (r *ReauthenticateRequest) toWire(m protoreflect.Message) {
	setMessage(m, "credential", &r.Credential)
}

func (r *ReauthenticateRequest) fromWire(m protoreflect.Message) {
	getMessage(m, "credential", &r.Credential)
}

func (*DeleteAccountRequest) messageName() protoreflect.Name { return "DeleteAccountRequest" }
func (*DeleteAccountRequest) toWire(protoreflect.Message)    {}
func (*DeleteAccountRequest) fromWire(protoreflect.Message)  {}

func (*DeleteAccountResponse) messageName() protoreflect.Name { return "DeleteAccountResponse" }
func (*DeleteAccountResponse) toWire(protoreflect.Message)    {}
func (*DeleteAccountResponse) fromWire(protoreflect.Message)  {}

func (*CreateNoteRequest) messageName() protoreflect.Name { return "CreateNoteRequest" }

func (r *CreateNoteRequest) toWire(m protoreflect.Message)   { setMessage(m, "note", &r.Note) }
func (r *CreateNoteRequest) fromWire(m protoreflect.Message) { getMessage(m, "note", &r.Note) }

func (*CreateNoteResponse) messageName() protoreflect.Name { return "CreateNoteResponse" }

func (r *CreateNoteResponse) toWire(m protoreflect.Message)   { setString(m, "id", r.ID) }
func (r *CreateNoteResponse) fromWire(m protoreflect.Message) { r.ID = getString(m, "id") }

func (*ListNotesRequest) messageName() protoreflect.Name { return "ListNotesRequest" }

func (r *ListNotesRequest) toWire(m protoreflect.Message)   { setString(m, "owner_id", r.OwnerID) }
func (r *ListNotesRequest) fromWire(m protoreflect.Message) { r.OwnerID = getString(m, "owner_id") }

func (*ListNotesResponse) messageName() protoreflect.Name { return "ListNotesResponse" }

func (r *ListNotesResponse) toWire(m protoreflect.Message) { setList(m, "notes", r.Notes) }

func (r *ListNotesResponse) fromWire(m protoreflect.Message) {
	r.Notes = getList[Note](m, "notes")
}

func (*DeleteNoteRequest) messageName() protoreflect.Name { return "DeleteNoteRequest" }

func (r *DeleteNoteRequest) toWire(m protoreflect.Message)   { setString(m, "id", r.ID) }
func (r *DeleteNoteRequest) fromWire(m protoreflect.Message) { r.ID = getString(m, "id") }

func (*DeleteNoteResponse) messageName() protoreflect.Name { return "DeleteNoteResponse" }
func (*DeleteNoteResponse) toWire(protoreflect.Message)    {}
func (*DeleteNoteResponse) fromWire(protoreflect.Message)  {}

func (*IssueIdpTokenRequest) messageName() protoreflect.Name { return "IssueIdpTokenRequest" }

func (r *IssueIdpTokenRequest) toWire(m protoreflect.Message)   { setString(m, "email", r.Email) }
func (r *IssueIdpTokenRequest) fromWire(m protoreflect.Message) { r.Email = getString(m, "email") }

func (*IssueIdpTokenResponse) messageName() protoreflect.Name { return "IssueIdpTokenResponse" }

func (r *IssueIdpTokenResponse) toWire(m protoreflect.Message) { setString(m, "id_token", r.IDToken) }

func (r *IssueIdpTokenResponse) fromWire(m protoreflect.Message) {
	r.IDToken = getString(m, "id_token")
}
