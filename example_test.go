package jobsystem_test

import (
	"fmt"

	js "github.com/Andrej220/go-utils/jobsystem"
)

func Example() {
	s := js.New(js.Options{})
	if err := s.Init(); err != nil {
		panic(err)
	}
	defer s.Deinit()

	var sum int
	j := js.NewJob(func() js.Result {
		for i := 1; i <= 10; i++ {
			sum += i
		}
		return js.ResultSuccess
	})

	if err := s.Submit(j); err != nil {
		panic(err)
	}
	j.Wait()

	fmt.Println(j.Result(), sum)
}
