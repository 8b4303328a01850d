package ast

type (
	ValueID   uint32
	StmtID    uint32
	PayloadID uint32
	StringID  uint32
)

const (
	NoValueID   ValueID   = 0
	NoStmtID    StmtID    = 0
	NoPayloadID PayloadID = 0
	NoStringID  StringID  = 0
)

func (id ValueID) IsValid() bool   { return id != NoValueID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
