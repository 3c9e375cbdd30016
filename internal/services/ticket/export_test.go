package ticket

// DefaultRetention exposes defaultRetention to the external ticket_test package.
const DefaultRetention = defaultRetention
