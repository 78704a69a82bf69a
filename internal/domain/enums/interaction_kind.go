package enums

type InteractionKind string

const (
	InteractionLike      InteractionKind = "like"
	InteractionSuperLike InteractionKind = "superlike"
	InteractionPass      InteractionKind = "pass"
)

func (k InteractionKind) IsLike() bool {
	return k == InteractionLike || k == InteractionSuperLike
}
