// Package httpclient provides a typed Go client for the task queue API.
//
// Create a client with:
//
//	client, err := httpclient.New("http://localhost:8080/api/v1")
//	if err != nil {
//	   panic(err)
//	}
//
// Then schedule and inspect tasks:
//
//	id, err := client.CreateTask(ctx, schema.Fizz, time.Now())
//	task, err := client.GetTask(ctx, id)
//	tasks, err := client.ListTasks(ctx, httpclient.WithState("Pending"))
//	err = client.DeleteTask(ctx, id)
package httpclient
