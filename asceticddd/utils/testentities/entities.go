// Package testentities holds mapped entity types shared by the package tests.
package testentities

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
)

type User struct {
	id         *int64 `orm:"id,generated,type=integer"`
	email      string `orm:"column"`
	active     bool   `orm:"column,type=boolean"`
	lastName   string `orm:"column,name=last_name"`
	notAColumn int
}

func NewUser(email, lastName string) *User {
	return &User{email: email, lastName: lastName, notAColumn: 100}
}

func NewUserWithId(id int64, email, lastName string) *User {
	u := NewUser(email, lastName)
	u.id = &id
	return u
}

// Id is nil until the user is flushed or constructed with an id.
func (u *User) Id() *int64 {
	return u.id
}

func (u *User) Email() string {
	return u.email
}

func (u *User) LastName() string {
	return u.lastName
}

func (u *User) SetActive(active bool) {
	u.active = active
}

type GrabBag struct {
	boolField  bool      `orm:"column,name=bool_field"`
	floatField float64   `orm:"column,name=float_field"`
	strField   string    `orm:"column,name=str_field"`
	dateField  time.Time `orm:"column,name=date_field,type=date"`
}

func NewGrabBag(boolField bool, floatField float64, strField string, dateField time.Time) *GrabBag {
	return &GrabBag{
		boolField:  boolField,
		floatField: floatField,
		strField:   strField,
		dateField:  dateField,
	}
}

func (g *GrabBag) StrField() string {
	return g.strField
}

//go:generate go run github.com/krew-solutions/ascetic-inmemory-go/cmd/mappinggen -type=Node

// Node assigns its own identifier.
type Node struct {
	nodeId string `orm:"id"`
}

func NewNode() *Node {
	return &Node{nodeId: "node_" + ulid.Make().String()}
}

func (n *Node) NodeId() string {
	return n.nodeId
}

type StringId struct {
	id *string `orm:"id,generated,type=string"`
}

func (s *StringId) Id() *string {
	return s.id
}

// UnspecifiedId leaves the identifier type to inference.
type UnspecifiedId struct {
	id *string `orm:"id,generated"`
}

func (u *UnspecifiedId) Id() *string {
	return u.id
}

type TypedId struct {
	id int64 `orm:"id,generated"`
}

func (t *TypedId) Id() int64 {
	return t.id
}

type Ticket struct {
	id    uuid.UUID `orm:"id,generated"`
	title string    `orm:"column"`
}

func NewTicket(title string) *Ticket {
	return &Ticket{title: title}
}

func (t *Ticket) Id() uuid.UUID {
	return t.id
}

type Event struct {
	id   ulid.ULID `orm:"id,generated"`
	kind string    `orm:"column"`
}

func NewEvent(kind string) *Event {
	return &Event{kind: kind}
}

func (e *Event) Id() ulid.ULID {
	return e.id
}

// Tag has no identifier, so no repository can be built for it.
type Tag struct {
	label string `orm:"column"`
}

// Account uses the nullable column types of pgx.
type Account struct {
	id       int64              `orm:"id"`
	nickname pgtype.Text        `orm:"column"`
	balance  pgtype.Int8        `orm:"column"`
	openedAt pgtype.Timestamptz `orm:"column,name=opened_at"`
}

func NewAccount(id int64, nickname *string, balance *int64, openedAt time.Time) *Account {
	a := &Account{id: id, openedAt: pgtype.Timestamptz{Time: openedAt, Valid: !openedAt.IsZero()}}
	if nickname != nil {
		a.nickname = pgtype.Text{String: *nickname, Valid: true}
	}
	if balance != nil {
		a.balance = pgtype.Int8{Int64: *balance, Valid: true}
	}
	return a
}
