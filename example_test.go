package assent_test

import (
	"fmt"

	"github.com/viant/assent"
)

func ExampleCoordinator() {
	c := assent.New()
	dirty := true
	_ = c.RegisterWaiter("editor", func(interface{}, ...interface{}) (interface{}, error) {
		if dirty {
			fmt.Println("editor: saving before close")
			dirty = false
		}
		return nil, c.Consent("editor")
	}, nil)

	closeWorkspace := func(receiver interface{}, args ...interface{}) (interface{}, error) {
		fmt.Printf("closing %v %v\n", receiver, args)
		return true, nil
	}
	result, _ := c.SubmitRequest(closeWorkspace, "main", "force")
	fmt.Println("deferred:", assent.IsDeferred(result))

	result, _ = c.SubmitRequest(closeWorkspace, "scratch")
	fmt.Println("result:", result)
	// Output:
	// editor: saving before close
	// closing main [force]
	// deferred: true
	// closing scratch []
	// result: true
}
