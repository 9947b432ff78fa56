package kernel

type PublishID string

func NewPublishID(id string) PublishID { return PublishID(id) }
func (p PublishID) String() string     { return string(p) }
func (p PublishID) IsEmpty() bool      { return string(p) == "" }
