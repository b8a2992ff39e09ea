package api

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// GroupsEndpoint is the endpoint for creating a group and listing all groups
	GroupsEndpoint = "/groups"
	// GroupEndpoint is the endpoint to get a single group record
	GroupURLParam = "groupId"
	GroupEndpoint = "/groups/{" + GroupURLParam + "}"
	// MembersEndpoint is the endpoint for admitting a member into a group
	MembersEndpoint = "/groups/{" + GroupURLParam + "}/members"
	// MemberEndpoint is the endpoint to check the join status of an address
	AddressURLParam = "address"
	MemberEndpoint  = "/groups/{" + GroupURLParam + "}/members/{" + AddressURLParam + "}"
	// SignalsEndpoint is the endpoint for submitting a signal and listing receipts
	SignalsEndpoint = "/groups/{" + GroupURLParam + "}/signals"
)
