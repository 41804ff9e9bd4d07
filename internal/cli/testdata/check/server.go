package check

func Run() error {
	return nil
}
