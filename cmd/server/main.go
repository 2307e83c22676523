package main

func main() {
	s := NewServer()
	defer s.Hub.Stop()
	s.Run()
}
