package override

type AppendedEvent struct {
	Result Override
}
