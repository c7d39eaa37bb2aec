// Command heapctl replays allocation traces against the heapkit allocator
// and reports space utilization and throughput.
package main

func main() {
	execute()
}
